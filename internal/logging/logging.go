// Package logging provides structured logging utilities.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	terrors "tou-cost/internal/errors"
)

// Logger is the process-wide logger. Components that need run-scoped
// fields derive a child with Logger.With.
var Logger *zap.Logger

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level
	Level string `json:"level"`

	// Format is the output format (json, console)
	Format string `json:"format"`

	// Output is the output destination (stdout, stderr, file path)
	Output string `json:"output"`

	// Development enables development mode
	Development bool `json:"development"`

	// MaxSizeMB rotates a file output once it reaches this size
	MaxSizeMB int `json:"max_size_mb,omitempty"`

	// MaxAgeDays is how long rotated files are kept (0 = forever)
	MaxAgeDays int `json:"max_age_days,omitempty"`

	// Compress gzips rotated files
	Compress bool `json:"compress,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "console",
		Output:      "stderr",
		Development: false,
		MaxSizeMB:   100,
	}
}

// Validate rejects settings New would otherwise silently replace
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return terrors.Config("invalid logging.level", err)
	}
	if _, err := newEncoder(c.Format); err != nil {
		return err
	}
	if c.MaxSizeMB < 0 || c.MaxAgeDays < 0 {
		return terrors.New(terrors.TypeConfig, "logging rotation limits must not be negative")
	}
	return nil
}

// New builds a logger from cfg without touching the global one.
// An unparsable level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoder, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(encoder, newSink(cfg), level)

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(core, opts...), nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	switch format {
	case "console":
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec), nil
	case "json", "":
		return zapcore.NewJSONEncoder(ec), nil
	default:
		return nil, terrors.Newf(terrors.TypeConfig, "unknown log format %q", format)
	}
}

// newSink maps Output to a writer. Anything other than stdout or stderr is
// a file path, rotated by size.
func newSink(cfg Config) zapcore.WriteSyncer {
	switch cfg.Output {
	case "stdout":
		return zapcore.Lock(os.Stdout)
	case "stderr", "":
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename: cfg.Output,
		MaxSize:  cfg.MaxSizeMB,
		MaxAge:   cfg.MaxAgeDays,
		Compress: cfg.Compress,
	})
}

// Initialize replaces the global logger
func Initialize(cfg Config) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	Logger = logger
	return nil
}

func init() {
	_ = Initialize(DefaultConfig())
}
