package utils

import (
	"time"

	"onchain-re-lending/pkg/metrics"
)

func RecordMongoOperationDuration(operation, collection string, start time.Time) {
	duration := time.Since(start).Seconds()
	metrics.MongoOperationDuration.WithLabelValues(operation, collection).Observe(duration)
}

func RecordMongoError(operation, collection string) {
	metrics.MongoErrorsTotal.WithLabelValues(operation, collection).Inc()
}

// RecordSessionLookup counts a wizard session lookup as "hit" or "miss".
func RecordSessionLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.SessionLookupsTotal.WithLabelValues(result).Inc()
}
