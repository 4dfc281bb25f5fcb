package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io"

	// Aria
	elevenLabsVoiceID = "EXAVITQu4vr4xnSDxMaL"
	elevenLabsModel   = "eleven_turbo_v2"

	// 22050 Hz / 32 kbps mp3
	elevenLabsFormat = "mp3_22050_32"
)

// ElevenLabs is the paid hosted synthesis backend.
type ElevenLabs struct {
	client  *http.Client
	baseURL string
	apiKey  string
	voiceID string
	model   string
}

func NewElevenLabs(apiKey string) *ElevenLabs {
	return &ElevenLabs{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: elevenLabsBaseURL,
		apiKey:  apiKey,
		voiceID: elevenLabsVoiceID,
		model:   elevenLabsModel,
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

type elevenLabsRequest struct {
	Text          string             `json:"text"`
	ModelID       string             `json:"model_id"`
	VoiceSettings map[string]float64 `json:"voice_settings"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if e.apiKey == "" {
		return nil, &SynthesisError{Provider: e.Name(), Err: fmt.Errorf("ELEVENLABS_API_KEY is not set")}
	}

	payload, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: e.model,
		VoiceSettings: map[string]float64{
			"stability":        0.75,
			"similarity_boost": 0.7,
		},
	})
	if err != nil {
		return nil, &SynthesisError{Provider: e.Name(), Err: err}
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		e.baseURL, e.voiceID, elevenLabsFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &SynthesisError{Provider: e.Name(), Err: err}
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &SynthesisError{Provider: e.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SynthesisError{Provider: e.Name(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &SynthesisError{
			Provider: e.Name(),
			Err:      fmt.Errorf("API error %d: %s", resp.StatusCode, string(body)),
		}
	}

	if len(body) == 0 {
		return nil, &SynthesisError{Provider: e.Name(), Err: fmt.Errorf("empty audio response")}
	}

	return body, nil
}
