//go:build linux

package player

import "os/exec"

// mpg123 handles mp3 directly; aplay is the fallback for raw and wav
// output. Both are common on desktop installs, neither is guaranteed.
func systemPlayer() Player {
	if _, err := exec.LookPath("mpg123"); err == nil {
		return &execPlayer{
			name: "mpg123",
			bin:  "mpg123",
			args: func(path string) []string { return []string{"-q", path} },
		}
	}
	return &execPlayer{
		name: "aplay",
		bin:  "aplay",
		args: func(path string) []string { return []string{"-q", path} },
	}
}
