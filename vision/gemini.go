package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// Gemini calls the generateContent endpoint with the prompt and the image
// attached as inline data.
type Gemini struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: geminiBaseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

func (g *Gemini) Name() string { return "gemini" }

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gemini) Analyze(ctx context.Context, prompt, imagePath string) (string, error) {
	if g.apiKey == "" {
		return "", &AnalysisError{Provider: g.Name(), Err: fmt.Errorf("GOOGLE_API_KEY is not set")}
	}

	imgData, mimeType, err := readImage(imagePath)
	if err != nil {
		return "", err
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(imgData),
				}},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &AnalysisError{Provider: g.Name(), Err: err}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(g.baseURL, "/"), g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &AnalysisError{Provider: g.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &AnalysisError{Provider: g.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AnalysisError{Provider: g.Name(), Err: err}
	}

	var gResp geminiResponse
	if err := json.Unmarshal(body, &gResp); err != nil {
		return "", &AnalysisError{Provider: g.Name(), Err: fmt.Errorf("response parse error: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if gResp.Error != nil {
			msg = gResp.Error.Message
		}
		return "", &AnalysisError{Provider: g.Name(), Err: fmt.Errorf("API error %d: %s", resp.StatusCode, msg)}
	}

	var sb strings.Builder
	for _, cand := range gResp.Candidates {
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
		break
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "No response received.", nil
	}
	return text, nil
}
