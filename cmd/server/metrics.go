package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "morfeusz"
	metricsSubsystem = "server"

	endpointLabelName = "endpoint"
	statusLabelName   = "status"
	resultLabelName   = "result"
)

var (
	registry = prometheus.NewRegistry()

	requestCountVec = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "request_total",
			Help:      "requests served, by endpoint and HTTP status",
		}, []string{endpointLabelName, statusLabelName})

	requestLatencyVec = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "request_latency_seconds",
			Help:      "request latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{endpointLabelName})

	segmentCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "segments_per_token",
			Help:      "segments returned per analyzed token",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		})

	cacheCountVec = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "cache_total",
			Help:      "analysis cache lookups, by result",
		}, []string{resultLabelName})
)

func init() {
	registry.MustRegister(requestCountVec)
	registry.MustRegister(requestLatencyVec)
	registry.MustRegister(segmentCount)
	registry.MustRegister(cacheCountVec)
	registry.MustRegister(collectors.NewGoCollector())
}

func metricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument counts and times requests to endpoint.
func instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		requestLatencyVec.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		requestCountVec.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
	}
}
