package services

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acms_cache_hits_total",
			Help: "Cache lookups served from the store",
		},
		[]string{"namespace"},
	)
	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acms_cache_misses_total",
			Help: "Cache lookups that fell through to the loader",
		},
		[]string{"namespace"},
	)
	cacheErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acms_cache_errors_total",
			Help: "Cache operations degraded by store or codec errors",
		},
		[]string{"namespace"},
	)
	rateLimitRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acms_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses, cacheErrors, rateLimitRejections)
}
