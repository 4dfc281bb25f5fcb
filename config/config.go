package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPort        = 7860
	DefaultGeminiModel = "gemini-1.5-flash"

	BackendGTTS       = "gtts"
	BackendElevenLabs = "elevenlabs"
)

// MissingKeyError reports a required environment variable that was not set.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required environment variable %s", e.Key)
}

// Config is the process-wide configuration, read once at startup and
// treated as read-only afterwards. Required keys fail Load; keys that are
// only needed for an optional feature fail Load only when that feature is
// selected (ELEVENLABS_API_KEY with TTS_BACKEND=elevenlabs).
type Config struct {
	GroqAPIKey       string // GROQ_API_KEY, required
	GoogleAPIKey     string // GOOGLE_API_KEY, required
	GeminiModel      string // GEMINI_MODEL, default gemini-1.5-flash
	ElevenLabsAPIKey string // ELEVENLABS_API_KEY, required for the elevenlabs backend
	TTSBackend       string // TTS_BACKEND: gtts (default) or elevenlabs
	Port             int    // PORT, default 7860
	ArtifactDir      string // PULSE_ARTIFACT_DIR, default <tmp>/pulse-artifacts
	Autoplay         bool   // PULSE_AUTOPLAY, default false
}

// Load builds the configuration from the environment. A .env file in the
// working directory is merged in first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:      os.Getenv("GEMINI_MODEL"),
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		TTSBackend:       os.Getenv("TTS_BACKEND"),
		ArtifactDir:      os.Getenv("PULSE_ARTIFACT_DIR"),
		Port:             DefaultPort,
	}

	if cfg.GroqAPIKey == "" {
		return nil, &MissingKeyError{Key: "GROQ_API_KEY"}
	}
	if cfg.GoogleAPIKey == "" {
		return nil, &MissingKeyError{Key: "GOOGLE_API_KEY"}
	}

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultGeminiModel
	}

	switch cfg.TTSBackend {
	case "":
		cfg.TTSBackend = BackendGTTS
	case BackendGTTS:
	case BackendElevenLabs:
		if cfg.ElevenLabsAPIKey == "" {
			return nil, &MissingKeyError{Key: "ELEVENLABS_API_KEY"}
		}
	default:
		return nil, fmt.Errorf("unknown TTS_BACKEND %q (use %s or %s)",
			cfg.TTSBackend, BackendGTTS, BackendElevenLabs)
	}

	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", p)
		}
		cfg.Port = port
	}

	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = filepath.Join(os.TempDir(), "pulse-artifacts")
	}

	if v := os.Getenv("PULSE_AUTOPLAY"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PULSE_AUTOPLAY %q", v)
		}
		cfg.Autoplay = on
	}

	return cfg, nil
}
