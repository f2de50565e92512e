// Package monitoring provides Prometheus metrics for the transform
// pipeline and the HTTP surface.
package monitoring

import (
	"context"
	"time"

	"github.com/photodish/v1/internal/domain/recipe"
	"github.com/photodish/v1/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application metric collectors.
type Metrics struct {
	TransformCalls    *prometheus.CounterVec
	TransformDuration *prometheus.HistogramVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics registers the collectors with the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		TransformCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photodish",
			Name:      "transform_calls_total",
			Help:      "AI transform operations by operation and outcome.",
		}, []string{"operation", "status"}),
		TransformDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "photodish",
			Name:      "transform_duration_seconds",
			Help:      "AI transform operation latency.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"operation"}),
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photodish",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status class.",
		}, []string{"route", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "photodish",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// InstrumentedGateway wraps a TransformGateway with call counters and
// latency histograms.
type InstrumentedGateway struct {
	inner   outbound.TransformGateway
	metrics *Metrics
}

// NewInstrumentedGateway decorates a transform gateway with metrics.
func NewInstrumentedGateway(inner outbound.TransformGateway, metrics *Metrics) *InstrumentedGateway {
	return &InstrumentedGateway{inner: inner, metrics: metrics}
}

func (g *InstrumentedGateway) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	g.metrics.TransformCalls.WithLabelValues(operation, status).Inc()
	g.metrics.TransformDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (g *InstrumentedGateway) GenerateFromPhoto(ctx context.Context, in outbound.GenerateFromPhotoInput) (*outbound.GenerateFromPhotoOutput, error) {
	start := time.Now()
	out, err := g.inner.GenerateFromPhoto(ctx, in)
	g.observe("generate_from_photo", start, err)
	return out, err
}

func (g *InstrumentedGateway) Summarize(ctx context.Context, in outbound.SummarizeInput) (*outbound.SummarizeOutput, error) {
	start := time.Now()
	out, err := g.inner.Summarize(ctx, in)
	g.observe("summarize", start, err)
	return out, err
}

func (g *InstrumentedGateway) Remix(ctx context.Context, in outbound.RemixInput) (*outbound.RemixOutput, error) {
	start := time.Now()
	out, err := g.inner.Remix(ctx, in)
	g.observe("remix", start, err)
	return out, err
}

func (g *InstrumentedGateway) SuggestDrinkPairing(ctx context.Context, in outbound.SuggestDrinkPairingInput) (*recipe.PairingSet, error) {
	start := time.Now()
	out, err := g.inner.SuggestDrinkPairing(ctx, in)
	g.observe("suggest_drink_pairing", start, err)
	return out, err
}
