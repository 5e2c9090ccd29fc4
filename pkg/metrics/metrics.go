// Package metrics 提供 Prometheus helper，包含 HTTP 与导出管线的常用指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 变更事件发布计数
	EventsPublishedTotal *prometheus.CounterVec
	// 目录导出计数
	ExportsTotal *prometheus.CounterVec
	// 目录导出耗时
	ExportDuration prometheus.Histogram
}

// New 创建并注册指标实例
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: registry,

		// HTTP 指标
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "catalog",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		// 业务指标
		EventsPublishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: serviceName,
			Name:      "change_events_published_total",
			Help:      "Total change events published to the queue",
		}, []string{"entity_type"}),
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: serviceName,
			Name:      "exports_total",
			Help:      "Total catalog export attempts by outcome",
		}, []string{"outcome"}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "catalog",
			Subsystem: serviceName,
			Name:      "export_duration_seconds",
			Help:      "Catalog export duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.EventsPublishedTotal,
		m.ExportsTotal,
		m.ExportDuration,
	)

	return m
}

// Handler 返回 Prometheus 指标的 HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveEventPublished 记录一次变更事件发布
func (m *Metrics) ObserveEventPublished(entityType string) {
	m.EventsPublishedTotal.WithLabelValues(entityType).Inc()
}

// ObserveExport 记录一次目录导出
func (m *Metrics) ObserveExport(outcome string, duration time.Duration) {
	m.ExportsTotal.WithLabelValues(outcome).Inc()
	m.ExportDuration.Observe(duration.Seconds())
}
