package core

import "context"

// Pipeline runs the full prediction sequence for one upload: validate,
// preprocess, invoke, interpret. Strictly sequential, no state shared
// between runs beyond the invoker's model handle.
type Pipeline struct {
	validator *Validator
	invoker   *Invoker
}

func NewPipeline(validator *Validator, invoker *Invoker) *Pipeline {
	return &Pipeline{validator: validator, invoker: invoker}
}

func (p *Pipeline) Invoker() *Invoker {
	return p.invoker
}

// Run classifies an upload. Validation failures return before any
// preprocessing or inference work happens.
func (p *Pipeline) Run(ctx context.Context, data []byte, contentType string) (*Prediction, *UploadedImage, error) {
	upload, err := p.validator.Validate(data, contentType)
	if err != nil {
		return nil, nil, err
	}

	input := Preprocess(upload.Image)

	scores, elapsed, err := p.invoker.Invoke(ctx, input)
	if err != nil {
		return nil, upload, err
	}

	prediction, err := Interpret(scores, elapsed)
	if err != nil {
		return nil, upload, err
	}

	return prediction, upload, nil
}
