package cache

import "expvar"

var (
	metricCacheHitTotal   = expvar.NewInt("cache_hit_total")
	metricCacheMissTotal  = expvar.NewInt("cache_miss_total")
	metricCacheStaleTotal = expvar.NewInt("cache_stale_total")
	metricCacheErrorTotal = expvar.NewInt("cache_error_total")
)
