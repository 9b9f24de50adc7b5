// Copyright (c) 2026 Lineage. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics holds the Prometheus collectors of the Lineage API.
//
// All methods are nil-safe so services can be constructed without metrics
// in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	gatherer prometheus.Gatherer

	DatesParsed       *prometheus.CounterVec
	DatesUnresolved   prometheus.Counter
	DatesCreated      prometheus.Counter
	EventsImported    *prometheus.CounterVec
	TimelineCacheHits *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)
	return &Metrics{
		gatherer: registry,
		DatesParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_fuzzydate_parsed_total",
			Help: "Total number of date texts parsed, by interpreted date type",
		}, []string{"date_type"}),
		DatesUnresolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "lineage_fuzzydate_unresolved_total",
			Help: "Total number of parsed dates without a sort key",
		}),
		DatesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "lineage_fuzzydate_created_total",
			Help: "Total number of fuzzy dates stored",
		}),
		EventsImported: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_gedcom_events_imported_total",
			Help: "Total number of GEDCOM events ingested, by outcome",
		}, []string{"outcome"}),
		TimelineCacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_timeline_cache_lookups_total",
			Help: "Total number of timeline cache lookups, by result",
		}, []string{"result"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_http_requests_total",
			Help: "Total number of HTTP requests, by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lineage_http_request_duration_seconds",
			Help:    "HTTP request latency, by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

// Instrument records request counts and latency labelled by the chi route
// pattern, so path parameters do not explode the label space.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		started := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, status: http.StatusOK}
		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.HTTPRequests.WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).Inc()
		m.HTTPDuration.WithLabelValues(request.Method, route).Observe(time.Since(started).Seconds())
	})
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveParsed(dateType string, resolved bool) {
	if m == nil {
		return
	}
	m.DatesParsed.WithLabelValues(dateType).Inc()
	if !resolved {
		m.DatesUnresolved.Inc()
	}
}

func (m *Metrics) IncrementDatesCreated() {
	if m == nil {
		return
	}
	m.DatesCreated.Inc()
}

// ObserveImport records one ingested event; outcome is "created", "updated" or "failed".
func (m *Metrics) ObserveImport(outcome string) {
	if m == nil {
		return
	}
	m.EventsImported.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveTimelineCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.TimelineCacheHits.WithLabelValues(result).Inc()
}
