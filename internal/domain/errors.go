package domain

import "errors"

// Sentinel errors mapped to HTTP statuses by the transport layer.
var (
	// ErrNoInput means the request carried neither an image nor a text field.
	ErrNoInput = errors.New("no input provided")
	// ErrExtractionFailed means OCR failed completely on an image input.
	// This is the only component failure that aborts the pipeline.
	ErrExtractionFailed = errors.New("OCR extraction failed")
)
