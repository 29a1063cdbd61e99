package logger

import (
	"context"
)

type logContextKey struct{}

// LogContext represents structured logging context
type LogContext struct {
	Component string                 `json:"component,omitempty"`
	Operation string                 `json:"operation,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	TraceID   string                 `json:"trace_id,omitempty"`
	SpanID    string                 `json:"span_id,omitempty"`
	Custom    map[string]interface{} `json:"custom,omitempty"`
}

// ToFields converts LogContext to logger Fields
func (lc LogContext) ToFields() Fields {
	fields := Fields{}

	if lc.Component != "" {
		fields["component"] = lc.Component
	}
	if lc.Operation != "" {
		fields["operation"] = lc.Operation
	}
	if lc.RequestID != "" {
		fields["request_id"] = lc.RequestID
	}
	if lc.TraceID != "" {
		fields["trace_id"] = lc.TraceID
	}
	if lc.SpanID != "" {
		fields["span_id"] = lc.SpanID
	}

	// Add custom fields
	for k, v := range lc.Custom {
		fields[k] = v
	}

	return fields
}

// Merge merges two LogContext objects, values set in other win
func (lc LogContext) Merge(other LogContext) LogContext {
	result := lc

	if other.Component != "" {
		result.Component = other.Component
	}
	if other.Operation != "" {
		result.Operation = other.Operation
	}
	if other.RequestID != "" {
		result.RequestID = other.RequestID
	}
	if other.TraceID != "" {
		result.TraceID = other.TraceID
	}
	if other.SpanID != "" {
		result.SpanID = other.SpanID
	}

	// Merge custom fields
	custom := make(map[string]interface{}, len(lc.Custom)+len(other.Custom))
	for k, v := range lc.Custom {
		custom[k] = v
	}
	for k, v := range other.Custom {
		custom[k] = v
	}
	result.Custom = custom

	return result
}

// ContextWithLogContext returns a copy of ctx carrying logCtx merged over
// whatever logging context ctx already had.
func ContextWithLogContext(ctx context.Context, logCtx LogContext) context.Context {
	return context.WithValue(ctx, logContextKey{}, FromContext(ctx).Merge(logCtx))
}

// FromContext extracts logging context from Go context
func FromContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if logCtx, ok := ctx.Value(logContextKey{}).(LogContext); ok {
		return logCtx
	}
	return LogContext{}
}
