// Package player plays synthesized audio files through whatever command
// line player the host OS ships with. Playback is advisory: callers treat
// a PlaybackError as a degraded outcome, not a failure.
package player

import (
	"context"
	"fmt"
	"os/exec"
)

// PlaybackError reports that a synthesized file could not be played. The
// file itself is intact and remains on disk.
type PlaybackError struct {
	Path string
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback of %s: %v", e.Path, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// Player plays an audio file synchronously, returning once playback ends.
type Player interface {
	Name() string
	Available() bool
	Play(ctx context.Context, path string) error
}

// System returns the player for the current OS. It never returns nil; on
// platforms with no known player the returned Player reports unavailable
// and Play fails with a PlaybackError.
func System() Player {
	return systemPlayer()
}

type execPlayer struct {
	name string
	bin  string
	args func(path string) []string
}

func (p *execPlayer) Name() string { return p.name }

func (p *execPlayer) Available() bool {
	_, err := exec.LookPath(p.bin)
	return err == nil
}

func (p *execPlayer) Play(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, p.bin, p.args(path)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &PlaybackError{Path: path, Err: fmt.Errorf("%s: %v: %s", p.bin, err, out)}
	}
	return nil
}
