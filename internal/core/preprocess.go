package core

import (
	"image"

	"github.com/nfnt/resize"
)

// Model input geometry. Must match the preprocessing the model was trained
// with: a plain 150x150 bilinear resize with no cropping or letterboxing,
// RGB channels scaled to [0,1].
const (
	ImageSize = 150
	Channels  = 3
)

// TensorLen is the flat length of one model input in NHWC layout.
const TensorLen = ImageSize * ImageSize * Channels

// Preprocess converts a decoded image into the flat float32 tensor the model
// expects. Deterministic: the same image always yields bit-identical output.
func Preprocess(img image.Image) []float32 {
	resized := resize.Resize(ImageSize, ImageSize, img, resize.Bilinear)

	data := make([]float32, TensorLen)
	i := 0
	for y := 0; y < ImageSize; y++ {
		for x := 0; x < ImageSize; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			// RGBA returns 16-bit channels; grayscale sources replicate into
			// all three, alpha is dropped.
			data[i] = float32(r) / 65535.0
			data[i+1] = float32(g) / 65535.0
			data[i+2] = float32(b) / 65535.0
			i += Channels
		}
	}
	return data
}
