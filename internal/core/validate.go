package core

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

const DefaultMaxUploadBytes = 10 << 20

var acceptedTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpg":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// UploadedImage is a validated, decoded upload. It lives for one request.
type UploadedImage struct {
	Data        []byte
	ContentType string
	Size        int64
	Image       image.Image
	Width       int
	Height      int
	Format      string
}

type Validator struct {
	maxBytes int64
}

func NewValidator(maxBytes int64) *Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Validator{maxBytes: maxBytes}
}

// Validate checks the upload size and declared content type before touching
// the payload, then decodes it. The declared type is authoritative: a
// text/plain upload is rejected even if its bytes happen to be a valid image.
func (v *Validator) Validate(data []byte, contentType string) (*UploadedImage, error) {
	if int64(len(data)) > v.maxBytes {
		return nil, fmt.Errorf("%w: file size %d bytes exceeds maximum of %d bytes", ErrInvalidInput, len(data), v.maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	declared := normalizeContentType(contentType)
	if _, ok := acceptedTypes[declared]; !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q, accepted types are PNG, JPG, JPEG, WEBP", ErrInvalidInput, contentType)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	return &UploadedImage{
		Data:        data,
		ContentType: declared,
		Size:        int64(len(data)),
		Image:       img,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Format:      strings.ToUpper(format),
	}, nil
}

func normalizeContentType(contentType string) string {
	declared := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	return declared
}
