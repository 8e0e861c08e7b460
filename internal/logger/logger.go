package logger

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

// ParseLevel accepts debug, info, warn/warning and error in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var level atomic.Int32

func init() {
	level.Store(int32(LevelInfo))
}

func SetLevel(l Level) {
	level.Store(int32(l))
}

func enabled(l Level) bool {
	return l >= Level(level.Load())
}

type fieldsKey struct{}

// WithFields returns a context whose key/value pairs are appended to every
// line logged with it.
func WithFields(ctx context.Context, kv ...any) context.Context {
	prev, _ := ctx.Value(fieldsKey{}).([]any)
	fields := make([]any, 0, len(prev)+len(kv))
	fields = append(fields, prev...)
	fields = append(fields, kv...)
	return context.WithValue(ctx, fieldsKey{}, fields)
}

func Debug(ctx context.Context, msg string, kv ...any) {
	output(ctx, LevelDebug, msg, kv)
}

func Info(ctx context.Context, msg string, kv ...any) {
	output(ctx, LevelInfo, msg, kv)
}

func Warn(ctx context.Context, msg string, kv ...any) {
	output(ctx, LevelWarn, msg, kv)
}

// Error logs msg followed by err, if any.
func Error(ctx context.Context, err error, msg string, kv ...any) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	output(ctx, LevelError, msg, kv)
}

func output(ctx context.Context, l Level, msg string, kv []any) {
	if !enabled(l) {
		return
	}

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(l.String())
	b.WriteString("] ")
	b.WriteString(msg)

	if ctx != nil {
		if fields, ok := ctx.Value(fieldsKey{}).([]any); ok {
			writeFields(&b, fields)
		}
	}
	writeFields(&b, kv)

	log.Print(b.String())
}

func writeFields(b *strings.Builder, kv []any) {
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(b, " %v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(b, " %v=<missing>", kv[i])
		}
	}
}
