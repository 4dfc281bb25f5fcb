package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const groqAPIURL = "https://api.groq.com/openai/v1/audio/transcriptions"

type Groq struct {
	client *TracedClient
	apiURL string
	apiKey string
	model  string
	lang   string
}

func NewGroq(apiKey string) *Groq {
	g := &Groq{
		client: NewTracedClient(groqAPIURL),
		apiURL: groqAPIURL,
		apiKey: apiKey,
		model:  "whisper-large-v3",
		lang:   "en",
	}
	go g.client.Warm()
	return g
}

func (g *Groq) Name() string { return "groq" }

func (g *Groq) SetLanguage(lang string) { g.lang = lang }

func (g *Groq) GetLanguage() string { return g.lang }

type groqResponse struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
}

func (g *Groq) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if g.apiKey == "" {
		return nil, ErrMissingKey
	}

	audioData, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, &TranscriptionError{Provider: g.Name(), Err: fmt.Errorf("reading audio: %w", err)}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio."+audioExt(audioPath))
	if err != nil {
		return nil, &TranscriptionError{Provider: g.Name(), Err: err}
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, &TranscriptionError{Provider: g.Name(), Err: err}
	}

	writer.WriteField("model", g.model)
	writer.WriteField("response_format", "verbose_json")
	if g.lang != "" {
		writer.WriteField("language", g.lang)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, &body)
	if err != nil {
		return nil, &TranscriptionError{Provider: g.Name(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &TranscriptionError{Provider: g.Name(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &TranscriptionError{
			Provider: g.Name(),
			Err:      fmt.Errorf("API error %d: %s", resp.StatusCode, string(resp.Body)),
		}
	}

	var gResp groqResponse
	if err := json.Unmarshal(resp.Body, &gResp); err != nil {
		return nil, &TranscriptionError{Provider: g.Name(), Err: fmt.Errorf("response parse error: %w", err)}
	}

	remaining := firstNonEmpty(resp.Header, "x-ratelimit-remaining-requests")
	limit := firstNonEmpty(resp.Header, "x-ratelimit-limit-requests")

	return &Result{
		Text:      strings.TrimSpace(gResp.Text),
		Metrics:   resp.Metrics,
		RateLimit: remaining + "/" + limit,
		Duration:  gResp.Duration,
	}, nil
}

// audioExt maps the file extension to the upload filename suffix the API
// uses for container sniffing. Unknown extensions fall back to mp3.
func audioExt(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "mp3", "wav", "flac", "ogg", "webm", "m4a", "mp4":
		return ext
	default:
		return "mp3"
	}
}
