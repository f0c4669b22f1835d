package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	ErrInvalidLogOutput = errors.New("logging: unknown output format")
	ErrInvalidLogLevel  = errors.New("logging: unknown level")
)

const (
	OutputFile    = "file"
	OutputConsole = "console"
	OutputStderr  = "stderr"
	OutputJSON    = "json"
)

// Config describes the log destination
type Config struct {
	Output   string
	Level    string
	File     string
	MaxMB    int
	MaxFiles int
}

// Logger is a zerolog logger plus whatever it writes to
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

// New builds a logger. The file output rotates through lumberjack so the
// dashboard can keep the terminal to itself.
func New(cfg Config) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		return nil, ErrInvalidLogLevel
	}

	var (
		output io.Writer
		closer io.Closer
	)

	switch cfg.Output {
	case OutputFile, "":
		if cfg.File == "" {
			return nil, fmt.Errorf("logging: file output needs a path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxMB,
			MaxBackups: cfg.MaxFiles,
			Compress:   false,
		}
		output = lj
		closer = lj
	case OutputConsole:
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	case OutputStderr:
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339, NoColor: true}
	case OutputJSON:
		output = os.Stdout
	default:
		return nil, ErrInvalidLogOutput
	}

	logger := zerolog.New(output).Level(lvl).With().Timestamp().Logger()

	return &Logger{Logger: logger, closer: closer}, nil
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Close releases the underlying file, if any
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}

	return l.closer.Close()
}
