package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// Init sets the global slog logger to JSON output on stdout, enriched with trace context.
func Init(level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level)))
}

// NewHandler returns a JSON handler writing to w that adds trace context to every record.
func NewHandler(w io.Writer, level slog.Level) *ContextHandler {
	return &ContextHandler{
		Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		}),
	}
}

// ContextHandler wraps a slog.Handler and adds trace_id and span_id when the context carries a valid span.
type ContextHandler struct {
	slog.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
