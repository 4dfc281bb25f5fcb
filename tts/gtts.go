package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	gttsBaseURL = "https://translate.google.com/translate_tts"

	// The endpoint rejects queries longer than this; longer text is split on
	// word boundaries and the mp3 segments concatenated.
	gttsMaxChunk = 200
)

// GTTS is the free synthesis backend, using the Google Translate speech
// endpoint. Lower quality than the hosted backend but needs no credential.
type GTTS struct {
	client  *http.Client
	baseURL string
	lang    string
}

func NewGTTS() *GTTS {
	return &GTTS{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: gttsBaseURL,
		lang:    "en",
	}
}

func (g *GTTS) Name() string { return "gtts" }

func (g *GTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &SynthesisError{Provider: g.Name(), Err: fmt.Errorf("empty text")}
	}

	var audio []byte
	for _, chunk := range splitText(text, gttsMaxChunk) {
		data, err := g.fetchChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		audio = append(audio, data...)
	}
	return audio, nil
}

func (g *GTTS) fetchChunk(ctx context.Context, chunk string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", g.lang)
	q.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &SynthesisError{Provider: g.Name(), Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &SynthesisError{Provider: g.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SynthesisError{
			Provider: g.Name(),
			Err:      fmt.Errorf("API error %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SynthesisError{Provider: g.Name(), Err: err}
	}
	if len(data) == 0 {
		return nil, &SynthesisError{Provider: g.Name(), Err: fmt.Errorf("empty audio response")}
	}
	return data, nil
}

// splitText breaks text into chunks of at most max bytes, preferring word
// boundaries. A single overlong word is split mid-word.
func splitText(text string, max int) []string {
	var chunks []string
	for len(text) > max {
		cut := strings.LastIndex(text[:max], " ")
		if cut <= 0 {
			cut = max
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
