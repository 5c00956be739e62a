package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scholaris/scholaris-api/internal/models"
)

// MetricsService owns the Prometheus registry and the collectors the API
// reports into.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	exportDuration  *prometheus.HistogramVec
	exportTotal     *prometheus.CounterVec
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	exportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_export_duration_seconds",
		Help:    "Time spent rendering and storing report exports",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"type", "format"})

	exportTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_exports_total",
		Help: "Report export jobs processed, by outcome",
	}, []string{"type", "format", "status"})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		exportDuration,
		exportTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		exportDuration:  exportDuration,
		exportTotal:     exportTotal,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveReportExport records one processed export job.
func (s *MetricsService) ObserveReportExport(reportType models.ReportType, format models.ReportFormat, status models.ReportStatus, duration time.Duration) {
	s.exportDuration.WithLabelValues(string(reportType), string(format)).Observe(duration.Seconds())
	s.exportTotal.WithLabelValues(string(reportType), string(format), string(status)).Inc()
}
