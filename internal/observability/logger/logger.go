package logger

import (
	"context"

	obscontext "github.com/smallbiznis/arbiter/internal/observability/context"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// FromContext returns the global logger enriched with the request id and the
// active trace/span ids. Handlers and services use this instead of threading
// a logger through every call.
func FromContext(ctx context.Context) *zap.Logger {
	log := zap.L()
	if ctx == nil {
		return log
	}

	var fields []zap.Field
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if caseRef := obscontext.CaseRefFromContext(ctx); caseRef != "" {
		fields = append(fields, zap.String("case_ref", caseRef))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}
