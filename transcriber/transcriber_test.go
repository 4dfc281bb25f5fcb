package transcriber

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNetworkMetricsSum(t *testing.T) {
	m := &NetworkMetrics{
		ConnWait:   10 * time.Millisecond,
		DNS:        20 * time.Millisecond,
		TCP:        30 * time.Millisecond,
		TLS:        40 * time.Millisecond,
		ReqHeaders: 5 * time.Millisecond,
		ReqBody:    15 * time.Millisecond,
		TTFB:       50 * time.Millisecond,
		Download:   25 * time.Millisecond,
	}
	got := m.Sum()
	want := 195 * time.Millisecond
	if got != want {
		t.Errorf("Sum() = %v, want %v", got, want)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	h := http.Header{}
	h.Set("X-Rate-Limit", "100")

	if got := firstNonEmpty(h, "X-Missing", "X-Rate-Limit"); got != "100" {
		t.Errorf("got %q, want %q", got, "100")
	}
	if got := firstNonEmpty(h, "X-A", "X-B"); got != "?" {
		t.Errorf("got %q, want %q", got, "?")
	}
}

func TestAudioExt(t *testing.T) {
	for _, tt := range []struct{ path, want string }{
		{"clip.mp3", "mp3"},
		{"clip.FLAC", "flac"},
		{"clip.webm", "webm"},
		{"clip.xyz", "mp3"},
		{"clip", "mp3"},
	} {
		t.Run(tt.path, func(t *testing.T) {
			if got := audioExt(tt.path); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("\xff\xfbfake-mp3"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testGroq(apiKey, apiURL string) *Groq {
	return &Groq{
		client: NewTracedClient(apiURL),
		apiURL: apiURL,
		apiKey: apiKey,
		model:  "whisper-large-v3",
		lang:   "en",
	}
}

func TestGroqMissingKey(t *testing.T) {
	g := testGroq("", "http://127.0.0.1:0")
	_, err := g.Transcribe(context.Background(), writeTempAudio(t))
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("err = %v, want ErrMissingKey", err)
	}
}

func TestGroqUnreadableFile(t *testing.T) {
	g := testGroq("gk_test", "http://127.0.0.1:0")
	_, err := g.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	var te *TranscriptionError
	if !errors.As(err, &te) {
		t.Errorf("err = %v, want TranscriptionError", err)
	}
}

func TestGroqTranscribe(t *testing.T) {
	var gotAuth, gotModel, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLang = r.FormValue("language")
		w.Header().Set("x-ratelimit-remaining-requests", "99")
		w.Header().Set("x-ratelimit-limit-requests", "100")
		w.Write([]byte(`{"text":" I have a rash ","duration":2.5}`))
	}))
	defer srv.Close()

	g := testGroq("gk_test", srv.URL)
	result, err := g.Transcribe(context.Background(), writeTempAudio(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Text != "I have a rash" {
		t.Errorf("Text = %q, want trimmed transcript", result.Text)
	}
	if result.RateLimit != "99/100" {
		t.Errorf("RateLimit = %q, want 99/100", result.RateLimit)
	}
	if result.Duration != 2.5 {
		t.Errorf("Duration = %v, want 2.5", result.Duration)
	}
	if gotAuth != "Bearer gk_test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "whisper-large-v3" {
		t.Errorf("model = %q", gotModel)
	}
	if gotLang != "en" {
		t.Errorf("language = %q, want en", gotLang)
	}
}

func TestGroqAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := testGroq("gk_test", srv.URL)
	_, err := g.Transcribe(context.Background(), writeTempAudio(t))
	var te *TranscriptionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TranscriptionError", err)
	}
	if te.Provider != "groq" {
		t.Errorf("Provider = %q", te.Provider)
	}
}

func TestFakeCounting(t *testing.T) {
	f := NewFake("hello", nil)
	if _, err := f.Transcribe(context.Background(), "x.mp3"); err != nil {
		t.Fatal(err)
	}
	if f.Calls != 1 {
		t.Errorf("Calls = %d, want 1", f.Calls)
	}

	f = NewFake("", errors.New("boom"))
	if _, err := f.Transcribe(context.Background(), "x.mp3"); err == nil {
		t.Error("expected error from fake")
	}
}
