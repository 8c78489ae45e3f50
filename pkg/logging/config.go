package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/attendmerge/pkg/constants"
)

// Config selects the level, encoding and destination of a logger.
type Config struct {
	Level   string // trace, debug, info, warn, error or off
	Format  string // json, console or auto
	Output  string // stderr, stdout, discard or a file path
	NoColor bool
	Caller  bool // include file:line; always on at debug and below
}

// NewLoggerFromConfig builds a logger from cfg. When a log file cannot be
// opened the returned logger writes to stderr and the open error is returned
// with it.
func NewLoggerFromConfig(cfg Config) (zerolog.Logger, error) {
	out, err := openOutput(cfg.Output)
	level := ParseLevel(cfg.Level)

	logger := zerolog.New(encoder(cfg, out)).Level(level).With().Timestamp().Logger()
	if cfg.Caller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger, err
}

// Configure builds a logger from cfg and installs it as the default, so code
// logging without a context logger follows the same settings. It also sets the
// zerolog global level.
func Configure(cfg Config) (zerolog.Logger, error) {
	logger, err := NewLoggerFromConfig(cfg)
	zerolog.SetGlobalLevel(logger.GetLevel())
	SetDefault(logger)
	return logger, err
}

func openOutput(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "discard", "none":
		return io.Discard, nil
	}
	file, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr, fmt.Errorf("open log output: %w", err)
	}
	return file, nil
}

// encoder wraps out in a console writer when asked to, or in auto mode when
// out is a terminal stderr.
func encoder(cfg Config, out io.Writer) io.Writer {
	console := false
	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		console = true
	case "", "auto":
		console = out == io.Writer(os.Stderr) && isatty()
	}
	if !console {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: cfg.NoColor}
}

// ParseLevel parses a log level string, falling back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "", "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off", "none", "disabled":
		return zerolog.Disabled
	}
	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && l != zerolog.NoLevel {
		return l
	}
	return zerolog.InfoLevel
}
