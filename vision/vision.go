package vision

import (
	"context"
	"fmt"
)

// ImageErrorKind distinguishes why an image could not be used.
type ImageErrorKind int

const (
	ImageNotFound ImageErrorKind = iota
	ImageDecodeFailure
)

func (k ImageErrorKind) String() string {
	switch k {
	case ImageNotFound:
		return "not found"
	case ImageDecodeFailure:
		return "decode failure"
	default:
		return "unknown"
	}
}

type ImageError struct {
	Path string
	Kind ImageErrorKind
	Err  error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }

// AnalysisError wraps a remote vision-model failure.
type AnalysisError struct {
	Provider string
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s analysis: %v", e.Provider, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Analyzer sends a text prompt plus an image to a vision-language model and
// returns the model's free-form text. The response passes through
// unmodified; stylistic constraints live in the prompt.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, prompt, imagePath string) (string, error)
}
