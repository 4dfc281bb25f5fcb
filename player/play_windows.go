//go:build windows

package player

import "fmt"

func systemPlayer() Player {
	return &execPlayer{
		name: "powershell",
		bin:  "powershell",
		args: func(path string) []string {
			script := fmt.Sprintf(
				"(New-Object Media.SoundPlayer '%s').PlaySync()", path)
			return []string{"-NoProfile", "-Command", script}
		},
	}
}
