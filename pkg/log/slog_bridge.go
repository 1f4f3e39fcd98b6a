package log

import (
	"context"
	"log/slog"
)

// bridgeHandler adapts a Logger to the slog.Handler interface so libraries
// that log through log/slog share the process formatter and outputs.
type bridgeHandler struct {
	logger Logger
}

// NewSlogHandler returns a slog.Handler backed by the given Logger.
func NewSlogHandler(logger Logger) slog.Handler {
	return &bridgeHandler{logger: logger}
}

// RedirectSlog installs the bridge as the process-wide slog default.
func RedirectSlog(logger Logger) {
	slog.SetDefault(slog.New(NewSlogHandler(logger.With(Component("slog")))))
}

func (h *bridgeHandler) Enabled(_ context.Context, level slog.Level) bool {
	return fromSlogLevel(level) >= h.logger.GetLevel()
}

func (h *bridgeHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]Field, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, F(attr.Key, attr.Value.Any()))
		return true
	})
	switch fromSlogLevel(record.Level) {
	case DebugLevel:
		h.logger.Debug(record.Message, fields...)
	case InfoLevel:
		h.logger.Info(record.Message, fields...)
	case WarnLevel:
		h.logger.Warn(record.Message, fields...)
	default:
		h.logger.Error(record.Message, fields...)
	}
	return nil
}

func (h *bridgeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	fields := make([]Field, 0, len(attrs))
	for _, attr := range attrs {
		fields = append(fields, F(attr.Key, attr.Value.Any()))
	}
	return &bridgeHandler{logger: h.logger.With(fields...)}
}

// WithGroup returns the handler unchanged: grouped attributes keep their
// leaf keys in the flat field map.
func (h *bridgeHandler) WithGroup(string) slog.Handler { return h }

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level < slog.LevelInfo:
		return DebugLevel
	case level < slog.LevelWarn:
		return InfoLevel
	case level < slog.LevelError:
		return WarnLevel
	default:
		return ErrorLevel
	}
}
