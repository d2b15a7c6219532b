package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger shared by every service.
type Logger interface {
	Action(action string) Logger
	With(args ...any) Logger
	WithGroup(name string) Logger

	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)

	Sync() error
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// New builds a JSON logger writing to stdout at the given level
// (DEBUG, INFO, WARN or ERROR).
func New(level string) (Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "json"
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.DisableStacktrace = lvl != zapcore.DebugLevel

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	hostname, _ := os.Hostname()
	return &zapLogger{s: base.Sugar().With("hostname", hostname)}, nil
}

// FromZap wraps an existing zap logger.
func FromZap(l *zap.Logger) Logger {
	return &zapLogger{s: l.Sugar()}
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}

func (l *zapLogger) Action(action string) Logger {
	return &zapLogger{s: l.s.With("action", action)}
}

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{s: l.s.With(args...)}
}

// WithGroup nests every field added afterwards under name.
func (l *zapLogger) WithGroup(name string) Logger {
	return &zapLogger{s: l.s.With(zap.Namespace(name))}
}

func (l *zapLogger) Debug(msg string, args ...any) { l.s.Debugw(msg, args...) }
func (l *zapLogger) Info(msg string, args ...any)  { l.s.Infow(msg, args...) }
func (l *zapLogger) Warn(msg string, args ...any)  { l.s.Warnw(msg, args...) }

func (l *zapLogger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, zap.Error(err))
	}
	l.s.Errorw(msg, args...)
}

func (l *zapLogger) Sync() error {
	return l.s.Sync()
}
