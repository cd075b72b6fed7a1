package core

import "errors"

// Pipeline failure classes. Handlers map these to HTTP statuses; everything
// else is treated as an internal error.
var (
	// ErrInvalidInput covers uploads rejected before decoding: oversized
	// payloads and unsupported content types.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecode covers payloads that claim an accepted image type but cannot
	// be decoded.
	ErrDecode = errors.New("image decode failed")

	// ErrModelUnavailable covers a model that never loaded, or an inference
	// call that failed or timed out. It is the only per-request error that
	// also surfaces through the health endpoint.
	ErrModelUnavailable = errors.New("model unavailable")
)
