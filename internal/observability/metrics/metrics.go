package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	loginAttempts metric.Int64Counter
	authzChecks   metric.Int64Counter
}

// HTTPMetrics exposes HTTP server instruments.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName(cfg))

	loginAttempts, err := meter.Int64Counter("tenantgate_login_attempts_total")
	if err != nil {
		return nil, err
	}
	authzChecks, err := meter.Int64Counter("tenantgate_authz_checks_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		loginAttempts: loginAttempts,
		authzChecks:   authzChecks,
	}, nil
}

// NewHTTPMetrics configures the HTTP server instruments.
func NewHTTPMetrics(cfg Config, provider metric.MeterProvider) (*HTTPMetrics, error) {
	meter := provider.Meter(meterName(cfg))

	requests, err := meter.Int64Counter("tenantgate_http_requests_total")
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("tenantgate_http_request_duration_ms")
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

// RecordLoginAttempt increments login attempt counts by outcome.
func (m *Metrics) RecordLoginAttempt(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.loginAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", strings.TrimSpace(result)),
	))
}

// RecordAuthzCheck increments authorization decision counts.
func (m *Metrics) RecordAuthzCheck(ctx context.Context, permission string, allowed bool) {
	if m == nil {
		return
	}
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	m.authzChecks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("permission", strings.TrimSpace(permission)),
		attribute.String("decision", decision),
	))
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
			attribute.Int("status_code", c.Writer.Status()),
		)
		ctx := c.Request.Context()
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}
}

func meterName(cfg Config) string {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "tenantgate"
	}
	return name
}
