package config

import (
	"errors"
	"testing"
)

func setRequired(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gk_test")
	t.Setenv("GOOGLE_API_KEY", "AIza_test")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("TTS_BACKEND", "")
	t.Setenv("PORT", "")
	t.Setenv("PULSE_ARTIFACT_DIR", "")
	t.Setenv("PULSE_AUTOPLAY", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.GeminiModel != DefaultGeminiModel {
		t.Errorf("GeminiModel = %q, want %q", cfg.GeminiModel, DefaultGeminiModel)
	}
	if cfg.TTSBackend != BackendGTTS {
		t.Errorf("TTSBackend = %q, want %q", cfg.TTSBackend, BackendGTTS)
	}
	if cfg.Autoplay {
		t.Error("Autoplay should default to false")
	}
	if cfg.ArtifactDir == "" {
		t.Error("ArtifactDir should have a default")
	}
}

func TestLoadMissingRequiredKeys(t *testing.T) {
	for _, key := range []string{"GROQ_API_KEY", "GOOGLE_API_KEY"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			var mk *MissingKeyError
			if !errors.As(err, &mk) {
				t.Fatalf("Load err = %v, want MissingKeyError", err)
			}
			if mk.Key != key {
				t.Errorf("missing key = %q, want %q", mk.Key, key)
			}
		})
	}
}

func TestLoadElevenLabsKeyOnlyRequiredWhenSelected(t *testing.T) {
	setRequired(t)
	t.Setenv("TTS_BACKEND", BackendElevenLabs)

	_, err := Load()
	var mk *MissingKeyError
	if !errors.As(err, &mk) || mk.Key != "ELEVENLABS_API_KEY" {
		t.Fatalf("Load err = %v, want MissingKeyError for ELEVENLABS_API_KEY", err)
	}

	t.Setenv("ELEVENLABS_API_KEY", "el_test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TTSBackend != BackendElevenLabs {
		t.Errorf("TTSBackend = %q, want %q", cfg.TTSBackend, BackendElevenLabs)
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("TTS_BACKEND", "espeak")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestLoadPortOverride(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8081")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Port)
	}

	t.Setenv("PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid PORT")
	}
}
