// Package monitoring exposes Prometheus metrics for the HTTP surface and the
// engagement write paths.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vidtube/internal/core/domain"
)

type PrometheusCollector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	uploadsTotal   *prometheus.CounterVec
	uploadDuration prometheus.Histogram

	togglesTotal *prometheus.CounterVec
	viewsTotal   prometheus.Counter
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vidtube_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vidtube_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"method", "path"}),

		httpRequestsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vidtube_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),

		uploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vidtube_media_uploads_total",
			Help: "Total number of media uploads",
		}, []string{"outcome"}),

		uploadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vidtube_media_upload_duration_seconds",
			Help:    "Duration of media uploads",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),

		togglesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vidtube_engagement_toggles_total",
			Help: "Like and subscription toggles by kind and outcome",
		}, []string{"kind", "outcome"}),

		viewsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vidtube_video_views_total",
			Help: "Total number of video views counted",
		}),
	}
}

func (p *PrometheusCollector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	p.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	p.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (p *PrometheusCollector) RequestStarted() {
	p.httpRequestsInFlight.Inc()
}

func (p *PrometheusCollector) RequestFinished() {
	p.httpRequestsInFlight.Dec()
}

func (p *PrometheusCollector) RecordUpload(duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	p.uploadsTotal.WithLabelValues(outcome).Inc()
	p.uploadDuration.Observe(duration.Seconds())
}

func (p *PrometheusCollector) RecordToggle(kind string, outcome domain.ToggleOutcome) {
	p.togglesTotal.WithLabelValues(kind, string(outcome)).Inc()
}

func (p *PrometheusCollector) RecordView() {
	p.viewsTotal.Inc()
}
