package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atul48kumar90/resume-tailor-agent/internal/diff"
)

// Collector holds all Prometheus metrics for the service. Each collector
// owns its registry so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Comparison metrics
	Comparisons     *prometheus.CounterVec
	CompareDuration *prometheus.HistogramVec
	ChangesPerDiff  prometheus.Histogram

	// Scoring metrics
	Scores        prometheus.Histogram
	ScoreDuration prometheus.Histogram

	// Version store metrics
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses prometheus.Counter
}

// NewCollector creates a collector with metrics under namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Comparisons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "comparisons_total",
				Help:      "Total number of resume comparisons, by kind (versions or documents)",
			},
			[]string{"kind"},
		),
		CompareDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compare_duration_seconds",
				Help:      "Time to build a comparison response",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
			[]string{"kind"},
		),
		ChangesPerDiff: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "diff_total_changes",
				Help:      "Total changes reported per comparison",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
		Scores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ats_score",
				Help:      "Distribution of ATS scores",
				Buckets:   prometheus.LinearBuckets(10, 10, 10),
			},
		),
		ScoreDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ats_score_duration_seconds",
				Help:      "Time to score one document",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),
		StoreOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "version_store_operations_total",
				Help:      "Total number of version store operations",
			},
			[]string{"operation", "status"},
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "version_store_operation_duration_seconds",
				Help:      "Version store operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of score cache hits, by tier",
			},
			[]string{"tier"},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of score cache misses",
			},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Comparisons,
		c.CompareDuration,
		c.ChangesPerDiff,
		c.Scores,
		c.ScoreDuration,
		c.StoreOperations,
		c.StoreDuration,
		c.CacheHits,
		c.CacheMisses,
	)
	return c
}

// Registry returns the Prometheus registry for this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveHTTP records one served request. route is the mux pattern, not the
// raw path, to keep label cardinality bounded.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveCompare records one comparison.
func (c *Collector) ObserveCompare(kind string, elapsed time.Duration, stats *diff.Statistics) {
	c.Comparisons.WithLabelValues(kind).Inc()
	c.CompareDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if stats != nil {
		c.ChangesPerDiff.Observe(float64(stats.TotalChanges))
	}
}

// ObserveScore records one ATS score.
func (c *Collector) ObserveScore(score int, elapsed time.Duration) {
	c.Scores.Observe(float64(score))
	c.ScoreDuration.Observe(elapsed.Seconds())
}

// CacheHit matches cache.Options.OnHit.
func (c *Collector) CacheHit(tier string) {
	c.CacheHits.WithLabelValues(tier).Inc()
}

// CacheMiss matches cache.Options.OnMiss.
func (c *Collector) CacheMiss() {
	c.CacheMisses.Inc()
}

func (c *Collector) observeStore(operation string, start time.Time, status string) {
	c.StoreOperations.WithLabelValues(operation, status).Inc()
	c.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
