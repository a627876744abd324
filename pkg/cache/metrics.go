package cache

import (
	"time"

	"onchain-re-lending/pkg/metrics"
)

// observe records one Redis round trip. A miss is ordinary session traffic and
// is not counted as an error.
func observe(label string, start time.Time, err error) {
	metrics.RedisOperationDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	if err != nil && !IsMiss(err) {
		metrics.RedisErrorsTotal.WithLabelValues(label).Inc()
	}
}

// countFailure counts an error raised before the command reached Redis.
func countFailure(label string) {
	metrics.RedisErrorsTotal.WithLabelValues(label).Inc()
}
