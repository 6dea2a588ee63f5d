package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config selects the minimum level and the encoding (json or text).
type Config struct {
	Level  string
	Format string
}

type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a logger writing to stdout.
func New(service string, cfg Config) *Logger {
	return NewWithWriter(os.Stdout, service, cfg)
}

func NewWithWriter(w io.Writer, service string, cfg Config) *Logger {
	hostname, _ := os.Hostname()

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler *slog.Logger
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "text") {
		handler = slog.New(slog.NewTextHandler(w, opts))
	} else {
		handler = slog.New(slog.NewJSONHandler(w, opts))
	}

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard, "test", Config{Level: "error"})
}

// ParseLevel converts textual levels into slog levels, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "dbg":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Service returns the service name stamped on every entry.
func (l *Logger) Service() string {
	return l.service
}

func (l *Logger) Debug(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, action, message, requestID, nil, fields)
}

func (l *Logger) Info(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, action, message, requestID, nil, fields)
}

func (l *Logger) Warn(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelWarn, action, message, requestID, nil, fields)
}

func (l *Logger) Error(action, message, requestID string, err error, fields map[string]interface{}) {
	l.log(slog.LevelError, action, message, requestID, err, fields)
}

func (l *Logger) log(level slog.Level, action, message, requestID string, err error, fields map[string]interface{}) {
	ctx := context.TODO()
	if !l.handler.Enabled(ctx, level) {
		return
	}

	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
	for key, value := range fields {
		attrs = append(attrs, slog.Any(key, value))
	}
	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
			slog.String("stack", string(debug.Stack())),
		))
	}

	l.handler.LogAttrs(ctx, level, message, attrs...)
}

// GenerateRequestID returns a fresh correlation id.
func GenerateRequestID() string {
	return uuid.NewString()
}

type requestIDKey struct{}

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
