//go:build darwin

package player

func systemPlayer() Player {
	return &execPlayer{
		name: "afplay",
		bin:  "afplay",
		args: func(path string) []string { return []string{path} },
	}
}
