//go:build !darwin && !linux && !windows

package player

import (
	"context"
	"fmt"
	"runtime"
)

type unsupportedPlayer struct{}

func (unsupportedPlayer) Name() string    { return "none" }
func (unsupportedPlayer) Available() bool { return false }

func (unsupportedPlayer) Play(_ context.Context, path string) error {
	return &PlaybackError{Path: path, Err: fmt.Errorf("no player on %s", runtime.GOOS)}
}

func systemPlayer() Player {
	return unsupportedPlayer{}
}
