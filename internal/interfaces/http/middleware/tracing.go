package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	// SkipPaths lists request paths that should not produce spans.
	SkipPaths []string
}

// DefaultTracingConfig returns the tracing configuration used in production.
func DefaultTracingConfig(serviceName string) TracingConfig {
	return TracingConfig{
		ServiceName: serviceName,
		SkipPaths:   []string{"/health"},
	}
}

// TracingWithConfig returns a gin middleware that creates a server span
// for each request via otelgin and enriches it with request identity.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	otelMiddleware := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		otelMiddleware(c)
	}
}

// TracingAttributeInjector adds request-scoped identity to the active
// span. It must be registered after TracingWithConfig so it runs while
// the server span is still recording.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Enrichment happens after the handler so values set deeper in
		// the chain, like the JWT user id, are visible.
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if requestID := c.GetString("request_id"); requestID != "" {
			telemetry.SetAttribute(span, telemetry.SpanAttrRequestID, requestID)
		}
		if userID := GetJWTUserID(c); userID != "" {
			telemetry.SetAttribute(span, telemetry.SpanAttrUserID, userID)
		}
	}
}

// SpanErrorMarker marks the active span as errored when the handler
// responds with a 4xx or 5xx status. otelgin only flags 5xx on its own,
// so client errors would otherwise look like successes in traces.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status >= 400 {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
			telemetry.SetAttribute(span, "http.response.status_code", status)
		}
	}
}
