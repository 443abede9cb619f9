package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 索引建立來源
const (
	IndexBuilt  = "built"
	IndexCached = "cache"
	IndexShared = "shared"
)

// Metrics 服務指標，使用獨立 registry
type Metrics struct {
	registry           *prometheus.Registry
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	indexBuilds        *prometheus.CounterVec
	indexBuildDuration prometheus.Histogram
	scaledIngredients  *prometheus.CounterVec
	documentOps        *prometheus.CounterVec
}

// New 建立並註冊所有指標
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "recipe_viewer"
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		indexBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "linker",
			Name:      "index_builds_total",
			Help:      "Link index lookups by how the index was obtained.",
		}, []string{"source"}),
		indexBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "linker",
			Name:      "index_build_duration_seconds",
			Help:      "Time spent building link indices.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		scaledIngredients: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scaler",
			Name:      "ingredients_total",
			Help:      "Ingredients rendered by the scaler, split by whether a unit conversion was offered.",
		}, []string{"converted"}),
		documentOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "operations_total",
			Help:      "Document store operations.",
		}, []string{"op"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.indexBuilds,
		m.indexBuildDuration,
		m.scaledIngredients,
		m.documentOps,
	)
	return m
}

// Registry 指標 registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics 處理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest 記錄 HTTP 請求
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveIndex 記錄索引取得方式；實際建立時一併記錄耗時
func (m *Metrics) ObserveIndex(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.indexBuilds.WithLabelValues(source).Inc()
	if source == IndexBuilt {
		m.indexBuildDuration.Observe(d.Seconds())
	}
}

// ObserveScale 記錄縮放結果
func (m *Metrics) ObserveScale(total, converted int) {
	if m == nil {
		return
	}
	m.scaledIngredients.WithLabelValues("true").Add(float64(converted))
	m.scaledIngredients.WithLabelValues("false").Add(float64(total - converted))
}

// ObserveDocument 記錄文件操作
func (m *Metrics) ObserveDocument(op string) {
	if m == nil {
		return
	}
	m.documentOps.WithLabelValues(op).Inc()
}
