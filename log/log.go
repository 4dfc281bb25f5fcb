package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	logger zerolog.Logger
	file   *os.File
	mu     sync.Mutex
	ready  bool
)

// Init sets up the process logger: zerolog console output on stderr, and a
// mirror into <dir>/pulse_log.txt when dir is non-empty.
func Init(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		path := filepath.Join(dir, "pulse_log.txt")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		file = f
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    true,
		})
	}

	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Int("pid", os.Getpid()).Logger()
	ready = true
	return nil
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
	ready = false
}

func Info(msg string) {
	if ready {
		logger.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if ready {
		logger.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if ready {
		logger.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if ready {
		logger.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if ready {
		logger.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if ready {
		logger.Error().Msg(fmt.Sprintf(format, args...))
	}
}
