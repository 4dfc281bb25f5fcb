// Package web serves the interactive front end: one page, a JSON submit
// endpoint, and per-submission audio artifacts. A separate fixed-port
// liveness listener answers platform health probes independently of the
// main pipeline.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pulse/log"
	"pulse/pipeline"
)

//go:embed index.html
var indexHTML []byte

const (
	// Uploads larger than this are rejected before hitting the pipeline.
	maxUploadBytes = 32 << 20

	livenessAddr = ":8000"
)

type Server struct {
	pipe        *pipeline.Pipeline
	artifactDir string
	httpSrv     *http.Server
}

func NewServer(pipe *pipeline.Pipeline, artifactDir string, port int) *Server {
	s := &Server{pipe: pipe, artifactDir: artifactDir}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/diagnose", s.handleDiagnose)
	mux.HandleFunc("/artifacts/", s.handleArtifact)
	mux.HandleFunc("/healthz", handleHealth)

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	log.Infof("ui listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

type diagnoseResponse struct {
	Transcript string `json:"transcript"`
	Diagnosis  string `json:"diagnosis"`
	AudioURL   string `json:"audio_url,omitempty"`
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "bad multipart form", http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "pulse-upload-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	audioPath, err := saveUpload(r, "audio", tmpDir)
	if err != nil {
		http.Error(w, "bad audio upload", http.StatusBadRequest)
		return
	}
	imagePath, err := saveUpload(r, "image", tmpDir)
	if err != nil {
		http.Error(w, "bad image upload", http.StatusBadRequest)
		return
	}

	res := s.pipe.Run(r.Context(), pipeline.Submission{
		AudioPath: audioPath,
		ImagePath: imagePath,
	})

	resp := diagnoseResponse{Transcript: res.Transcript, Diagnosis: res.Diagnosis}
	if res.AudioPath != "" {
		resp.AudioURL = "/artifacts/" + filepath.Base(res.AudioPath)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("encode response: %v", err)
	}
}

// saveUpload writes the named multipart file into dir, preserving the
// upload's extension. Returns "" when the field is absent.
func saveUpload(r *http.Request, field, dir string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	dst := filepath.Join(dir, field+safeExt(header))
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return dst, nil
}

func safeExt(header *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '.' {
			return ""
		}
	}
	return ext
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/artifacts/")
	// Only synthesized responses are served; the artifact dir also holds
	// the log file.
	if name != filepath.Base(name) ||
		!strings.HasPrefix(name, "doctor_") || !strings.HasSuffix(name, ".mp3") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.artifactDir, name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}

// ServeLiveness answers platform health probes on a fixed port. It blocks,
// so callers run it in its own goroutine; errors are logged and swallowed
// since a dead probe listener must not take the pipeline down with it.
func ServeLiveness() {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleHealth)
	srv := &http.Server{
		Addr:              livenessAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Infof("liveness listening on %s", livenessAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warnf("liveness listener: %v", err)
	}
}
