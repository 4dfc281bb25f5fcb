// Package doctor runs non-interactive deployment diagnostics: credentials,
// artifact storage, the local audio player, and reachability of the hosted
// services. It reads the environment directly so it can diagnose a broken
// configuration instead of failing on it.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"pulse/audio"
	"pulse/config"
	"pulse/player"
)

const probeTimeout = 5 * time.Second

var serviceHosts = []struct {
	name string
	host string
}{
	{"groq", "https://api.groq.com"},
	{"gemini", "https://generativelanguage.googleapis.com"},
	{"elevenlabs", "https://api.elevenlabs.io"},
	{"gtts", "https://translate.google.com"},
}

// Run executes all checks and returns an exit code (0=all pass, 1=any fail).
// Warnings do not fail the run.
func Run() int {
	fmt.Println("pulse doctor - deployment diagnostics")
	fmt.Println("=====================================")

	allPass := true

	if !checkCredentials() {
		allPass = false
	}
	if !checkArtifactDir() {
		allPass = false
	}
	checkPlayer()
	checkCapture()
	checkReachability()

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkCredentials() bool {
	fmt.Println()
	fmt.Println("[1/5] Credentials")

	pass := true
	for _, key := range []string{"GROQ_API_KEY", "GOOGLE_API_KEY"} {
		if os.Getenv(key) == "" {
			fmt.Printf("  FAIL: %s is not set\n", key)
			pass = false
		} else {
			fmt.Printf("  PASS: %s is set\n", key)
		}
	}

	backend := os.Getenv("TTS_BACKEND")
	if backend == "" {
		backend = config.BackendGTTS
	}
	switch backend {
	case config.BackendGTTS:
		fmt.Println("  PASS: tts backend gtts (no credential needed)")
	case config.BackendElevenLabs:
		if os.Getenv("ELEVENLABS_API_KEY") == "" {
			fmt.Println("  FAIL: tts backend elevenlabs selected but ELEVENLABS_API_KEY is not set")
			pass = false
		} else {
			fmt.Println("  PASS: tts backend elevenlabs with key")
		}
	default:
		fmt.Printf("  FAIL: unknown TTS_BACKEND %q\n", backend)
		pass = false
	}
	return pass
}

func checkArtifactDir() bool {
	fmt.Println()
	fmt.Println("[2/5] Artifact storage")

	dir := os.Getenv("PULSE_ARTIFACT_DIR")
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "pulse-artifacts")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Printf("  FAIL: cannot create %s: %v\n", dir, err)
		return false
	}

	probe := filepath.Join(dir, "doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		fmt.Printf("  FAIL: cannot write to %s: %v\n", dir, err)
		return false
	}
	os.Remove(probe)
	fmt.Printf("  PASS: %s is writable\n", dir)
	return true
}

func checkPlayer() {
	fmt.Println()
	fmt.Println("[3/5] Audio player")

	p := player.System()
	if p.Available() {
		fmt.Printf("  PASS: %s found on PATH\n", p.Name())
		return
	}
	fmt.Printf("  WARN: %s not found; responses will not auto-play (files are still served)\n", p.Name())
}

func checkCapture() {
	fmt.Println()
	fmt.Println("[4/5] Microphone capture")

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  WARN: no audio subsystem (%v); record mode unavailable\n", err)
		return
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil || len(devices) == 0 {
		fmt.Println("  WARN: no capture devices; record mode unavailable")
		return
	}
	fmt.Printf("  PASS: %d capture device(s)\n", len(devices))
	for _, d := range devices {
		tag := ""
		if audio.IsBluetooth(d.Name) {
			tag = " (bluetooth, lower quality)"
		}
		fmt.Printf("        %s%s\n", d.Name, tag)
	}
}

func checkReachability() {
	fmt.Println()
	fmt.Println("[5/5] Service reachability")

	client := &http.Client{Timeout: probeTimeout}
	for _, svc := range serviceHosts {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, svc.host, nil)
		if err != nil {
			cancel()
			continue
		}
		resp, err := client.Do(req)
		cancel()
		if err != nil {
			fmt.Printf("  WARN: %s unreachable: %v\n", svc.name, err)
			continue
		}
		resp.Body.Close()
		fmt.Printf("  PASS: %s reachable\n", svc.name)
	}
}
