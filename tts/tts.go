package tts

import (
	"context"
	"fmt"

	"pulse/config"
)

// SynthesisError wraps any failure to turn text into audio. Distinct from
// playback failures, which never reach this package.
type SynthesisError struct {
	Provider string
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s synthesis: %v", e.Provider, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Synthesizer converts text into encoded audio bytes. Writing the bytes to
// disk and playing them are the caller's concerns.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// New selects the synthesis backend from configuration.
func New(cfg *config.Config) (Synthesizer, error) {
	switch cfg.TTSBackend {
	case config.BackendElevenLabs:
		if cfg.ElevenLabsAPIKey == "" {
			return nil, &config.MissingKeyError{Key: "ELEVENLABS_API_KEY"}
		}
		return NewElevenLabs(cfg.ElevenLabsAPIKey), nil
	case config.BackendGTTS:
		return NewGTTS(), nil
	default:
		return nil, fmt.Errorf("unknown tts backend %q", cfg.TTSBackend)
	}
}
