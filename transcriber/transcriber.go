package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrMissingKey is returned before any network I/O when the provider
// credential is absent.
var ErrMissingKey = errors.New("GROQ_API_KEY is not set")

// TranscriptionError wraps any transport or service failure during a
// transcription call. Callers treat it as non-fatal for the submission.
type TranscriptionError struct {
	Provider string
	Err      error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("%s transcription: %v", e.Provider, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

type NetworkMetrics struct {
	DNS        time.Duration
	ConnWait   time.Duration
	TCP        time.Duration
	TLS        time.Duration
	ReqHeaders time.Duration
	ReqBody    time.Duration
	TTFB       time.Duration
	Download   time.Duration
	Total      time.Duration
	ConnReused bool
}

func (m *NetworkMetrics) Sum() time.Duration {
	return m.ConnWait + m.DNS + m.TCP + m.TLS + m.ReqHeaders + m.ReqBody + m.TTFB + m.Download
}

func firstNonEmpty(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := h.Get(k); v != "" {
			return v
		}
	}
	return "?"
}

type Result struct {
	Text      string
	Metrics   *NetworkMetrics
	RateLimit string  // "remaining/limit" or "?/?"
	Duration  float64 // audio length reported by the service, seconds
}

type Transcriber interface {
	Name() string
	SetLanguage(lang string)
	GetLanguage() string
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}
