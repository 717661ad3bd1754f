package metrics

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics captures low-cardinality HTTP server metrics. Endpoints are
// labelled by gin route template, never by raw path, so case refs stay out of
// label values.
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	inFlight        metric.Int64UpDownCounter
}

func NewHTTPMetrics(cfg Config, provider metric.MeterProvider) (*HTTPMetrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "arbiter"
	}
	meter := provider.Meter(name + "/http")

	requestDuration, err := meter.Float64Histogram("http.server.duration_ms")
	if err != nil {
		return nil, err
	}
	inFlight, err := meter.Int64UpDownCounter("http.server.in_flight")
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestDuration: requestDuration,
		inFlight:        inFlight,
	}, nil
}

// GinMiddleware records request duration and in-flight counts per route. A
// nil receiver passes requests through, so the server wires this regardless
// of whether metrics are enabled.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		route := routeLabel(c.FullPath())
		ctx := c.Request.Context()
		routeAttr := metric.WithAttributes(FilterAttributes(attribute.String("endpoint", route))...)

		m.inFlight.Add(ctx, 1, routeAttr)
		start := time.Now()
		c.Next()
		m.inFlight.Add(ctx, -1, routeAttr)

		m.requestDuration.Record(ctx,
			float64(time.Since(start).Milliseconds()),
			metric.WithAttributes(FilterAttributes(
				attribute.String("endpoint", route),
				attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
			)...),
		)
	}
}

// RecordRequest records one request outside the middleware path.
func (m *HTTPMetrics) RecordRequest(ctx context.Context, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.Record(ctx,
		float64(duration.Milliseconds()),
		metric.WithAttributes(FilterAttributes(
			attribute.String("endpoint", routeLabel(endpoint)),
			attribute.String("status_code", strconv.Itoa(status)),
		)...),
	)
}

// routeLabel keeps unmatched requests under one bucket; gin returns an empty
// FullPath for 404s.
func routeLabel(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "unmatched"
	}
	return endpoint
}
