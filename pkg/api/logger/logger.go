package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger/color"
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelSilent
)

type ctxKey string

const (
	logLevelKey  ctxKey = "log-level"
	requestIDKey ctxKey = "request-id"
)

type Logger interface {
	Error(ctx context.Context, format string, a ...any)
	Warn(ctx context.Context, format string, a ...any)
	Info(ctx context.Context, format string, a ...any)
	Debug(ctx context.Context, format string, a ...any)

	SetLogLevel(ctx context.Context, logLevel int) context.Context
	Silent(ctx context.Context) context.Context
}

type Option func(l *logger)

// WithWriter sends log lines to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(l *logger) {
		l.out = w
	}
}

// WithTimestamps prefixes every line with the current time.
func WithTimestamps() Option {
	return func(l *logger) {
		l.timestamps = true
	}
}

type logger struct {
	mu         sync.Mutex
	out        io.Writer
	timestamps bool
	level      int
}

func New(opts ...Option) Logger {
	l := &logger{
		out:   os.Stdout,
		level: LogLevelInfo,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithRequestID attaches a request id that is printed alongside every message logged with ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request id stored by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	rid, _ := ctx.Value(requestIDKey).(string)
	return rid
}

func (l *logger) SetLogLevel(ctx context.Context, logLevel int) context.Context {
	return context.WithValue(ctx, logLevelKey, logLevel)
}

func (l *logger) Silent(ctx context.Context) context.Context {
	return l.SetLogLevel(ctx, LogLevelSilent)
}

func (l *logger) Error(ctx context.Context, format string, a ...any) {
	l.write(ctx, LogLevelError, color.Red("ERROR"), format, a...)
}

func (l *logger) Warn(ctx context.Context, format string, a ...any) {
	l.write(ctx, LogLevelWarn, color.Yellow("WARN"), format, a...)
}

func (l *logger) Info(ctx context.Context, format string, a ...any) {
	l.write(ctx, LogLevelInfo, color.Green("INFO"), format, a...)
}

func (l *logger) Debug(ctx context.Context, format string, a ...any) {
	l.write(ctx, LogLevelDebug, color.Gray("DEBUG"), format, a...)
}

func (l *logger) levelFor(ctx context.Context) int {
	if ctx != nil {
		if lvl, ok := ctx.Value(logLevelKey).(int); ok {
			return lvl
		}
	}
	return l.level
}

func (l *logger) write(ctx context.Context, level int, prefix string, format string, a ...any) {
	if level < l.levelFor(ctx) {
		return
	}
	line := prefix + ": " + fmt.Sprintf(format, a...)
	if rid := RequestID(ctx); rid != "" {
		line = prefix + ": " + color.CyanFmt("[%s] ", rid) + fmt.Sprintf(format, a...)
	}
	if l.timestamps {
		line = time.Now().Format(time.RFC3339) + " " + line
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintln(l.out, line)
}
