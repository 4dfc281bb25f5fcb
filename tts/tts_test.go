package tts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pulse/config"
)

func TestNewBackendSelection(t *testing.T) {
	s, err := New(&config.Config{TTSBackend: config.BackendGTTS})
	if err != nil {
		t.Fatalf("New(gtts): %v", err)
	}
	if s.Name() != "gtts" {
		t.Errorf("Name = %q, want gtts", s.Name())
	}

	s, err = New(&config.Config{TTSBackend: config.BackendElevenLabs, ElevenLabsAPIKey: "el_test"})
	if err != nil {
		t.Fatalf("New(elevenlabs): %v", err)
	}
	if s.Name() != "elevenlabs" {
		t.Errorf("Name = %q, want elevenlabs", s.Name())
	}

	_, err = New(&config.Config{TTSBackend: config.BackendElevenLabs})
	var mk *config.MissingKeyError
	if !errors.As(err, &mk) {
		t.Errorf("err = %v, want MissingKeyError", err)
	}

	if _, err := New(&config.Config{TTSBackend: "bogus"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestSplitText(t *testing.T) {
	for _, tt := range []struct {
		name string
		text string
		max  int
		want int
	}{
		{"short", "hello there", 200, 1},
		{"two chunks", strings.Repeat("word ", 60), 200, 2},
		{"overlong word", strings.Repeat("x", 450), 200, 3},
	} {
		t.Run(tt.name, func(t *testing.T) {
			chunks := splitText(strings.TrimSpace(tt.text), tt.max)
			if len(chunks) != tt.want {
				t.Fatalf("got %d chunks, want %d: %q", len(chunks), tt.want, chunks)
			}
			for _, c := range chunks {
				if len(c) > tt.max {
					t.Errorf("chunk exceeds max: %d > %d", len(c), tt.max)
				}
			}
			joined := strings.Join(chunks, " ")
			if strings.ReplaceAll(joined, " ", "") != strings.ReplaceAll(strings.TrimSpace(tt.text), " ", "") {
				t.Error("chunks lost content")
			}
		})
	}
}

func TestGTTSSynthesize(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("tl") != "en" {
			t.Errorf("tl = %q, want en", r.URL.Query().Get("tl"))
		}
		if r.URL.Query().Get("q") == "" {
			t.Error("empty q parameter")
		}
		w.Write([]byte("MP3"))
	}))
	defer srv.Close()

	g := &GTTS{client: srv.Client(), baseURL: srv.URL, lang: "en"}
	audio, err := g.Synthesize(context.Background(), strings.Repeat("take two aspirin ", 20))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if requests < 2 {
		t.Errorf("requests = %d, want chunked (>= 2)", requests)
	}
	if len(audio) != requests*3 {
		t.Errorf("audio len = %d, want concatenated segments", len(audio))
	}
}

func TestGTTSEmptyText(t *testing.T) {
	g := NewGTTS()
	_, err := g.Synthesize(context.Background(), "   ")
	var se *SynthesisError
	if !errors.As(err, &se) {
		t.Errorf("err = %v, want SynthesisError", err)
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	var gotKey, gotPath, gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("xi-api-key")
		gotPath = r.URL.Path
		gotFormat = r.URL.Query().Get("output_format")
		w.Write([]byte("ID3fake-mp3-bytes"))
	}))
	defer srv.Close()

	e := &ElevenLabs{
		client:  srv.Client(),
		baseURL: srv.URL,
		apiKey:  "el_test",
		voiceID: elevenLabsVoiceID,
		model:   elevenLabsModel,
	}
	audio, err := e.Synthesize(context.Background(), "You have contact dermatitis.")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(audio) == 0 {
		t.Error("expected audio bytes")
	}
	if gotKey != "el_test" {
		t.Errorf("xi-api-key = %q", gotKey)
	}
	if want := "/v1/text-to-speech/" + elevenLabsVoiceID; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
	if gotFormat != elevenLabsFormat {
		t.Errorf("output_format = %q, want %q", gotFormat, elevenLabsFormat)
	}
}

func TestElevenLabsMissingKey(t *testing.T) {
	e := NewElevenLabs("")
	_, err := e.Synthesize(context.Background(), "hello")
	var se *SynthesisError
	if !errors.As(err, &se) {
		t.Errorf("err = %v, want SynthesisError before any network call", err)
	}
}

func TestElevenLabsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"quota exceeded"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := &ElevenLabs{client: srv.Client(), baseURL: srv.URL, apiKey: "el_test",
		voiceID: elevenLabsVoiceID, model: elevenLabsModel}
	_, err := e.Synthesize(context.Background(), "hello")
	var se *SynthesisError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want SynthesisError", err)
	}
	if !strings.Contains(se.Error(), "401") {
		t.Errorf("error should carry status: %v", se)
	}
}

func TestFakeSynthesizer(t *testing.T) {
	f := NewFake([]byte("mp3"), nil)
	audio, err := f.Synthesize(context.Background(), "hi")
	if err != nil || string(audio) != "mp3" {
		t.Fatalf("fake: %v %q", err, audio)
	}
	if f.Calls != 1 || f.LastText != "hi" {
		t.Errorf("Calls=%d LastText=%q", f.Calls, f.LastText)
	}
}

func TestClientTimeoutsConfigured(t *testing.T) {
	if NewGTTS().client.Timeout == 0 {
		t.Error("gtts client has no timeout")
	}
	if NewElevenLabs("k").client.Timeout == 0 {
		t.Error("elevenlabs client has no timeout")
	}
}
