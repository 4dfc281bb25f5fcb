package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestPNG(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "rash.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadImage(t *testing.T) {
	path := writeTestPNG(t)
	data, mime, err := readImage(path)
	if err != nil {
		t.Fatalf("readImage: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected image bytes")
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want image/png", mime)
	}
}

func TestReadImageNotFound(t *testing.T) {
	_, _, err := readImage(filepath.Join(t.TempDir(), "nope.jpg"))
	var ie *ImageError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want ImageError", err)
	}
	if ie.Kind != ImageNotFound {
		t.Errorf("Kind = %v, want not found", ie.Kind)
	}
}

func TestReadImageDecodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.jpg")
	if err := os.WriteFile(path, []byte("this is not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	_, _, err := readImage(path)
	var ie *ImageError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want ImageError", err)
	}
	if ie.Kind != ImageDecodeFailure {
		t.Errorf("Kind = %v, want decode failure", ie.Kind)
	}
}

func testGemini(apiKey, baseURL string) *Gemini {
	return &Gemini{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   "gemini-1.5-flash",
	}
}

func TestGeminiAnalyze(t *testing.T) {
	var gotKey string
	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" With what I see, I think you have contact dermatitis. "}]}}]}`))
	}))
	defer srv.Close()

	g := testGemini("AIza_test", srv.URL)
	text, err := g.Analyze(context.Background(), "prompt text", writeTestPNG(t))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if text != "With what I see, I think you have contact dermatitis." {
		t.Errorf("text = %q", text)
	}
	if gotKey != "AIza_test" {
		t.Errorf("x-goog-api-key = %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request shape: %+v", gotReq)
	}
	if gotReq.Contents[0].Parts[0].Text != "prompt text" {
		t.Errorf("prompt part = %q", gotReq.Contents[0].Parts[0].Text)
	}
	if inline := gotReq.Contents[0].Parts[1].InlineData; inline == nil || inline.MimeType != "image/png" || inline.Data == "" {
		t.Errorf("inline data part = %+v", inline)
	}
}

func TestGeminiEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	g := testGemini("AIza_test", srv.URL)
	text, err := g.Analyze(context.Background(), "p", writeTestPNG(t))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if text != "No response received." {
		t.Errorf("text = %q", text)
	}
}

func TestGeminiAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid argument"}}`))
	}))
	defer srv.Close()

	g := testGemini("AIza_test", srv.URL)
	_, err := g.Analyze(context.Background(), "p", writeTestPNG(t))
	var ae *AnalysisError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want AnalysisError", err)
	}
}

func TestGeminiImageErrorBeforeNetwork(t *testing.T) {
	// Server that fails the test if reached: image validation must happen first.
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("network call made despite bad image")
	}))
	defer srv.Close()

	g := testGemini("AIza_test", srv.URL)
	_, err := g.Analyze(context.Background(), "p", filepath.Join(t.TempDir(), "missing.png"))
	var ie *ImageError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want ImageError", err)
	}
}
