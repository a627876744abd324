package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	MongoOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_operation_duration_seconds",
			Help:    "MongoDB operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)
	MongoErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_errors_total",
			Help: "Total number of MongoDB operation errors",
		},
		[]string{"operation", "collection"},
	)
	RedisOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	RedisErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_errors_total",
			Help: "Total number of Redis operation errors",
		},
		[]string{"operation"},
	)
	SessionLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_lookups_total",
			Help: "Wizard session lookups by result (hit, miss)",
		},
		[]string{"result"},
	)
	OpenDataRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opendata_requests_total",
			Help: "Open-data upstream requests by cascade step and outcome",
		},
		[]string{"step", "outcome"},
	)
	OpenDataRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "opendata_request_duration_seconds",
			Help:    "Open-data upstream request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)
	ValuationResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valuation_resolutions_total",
			Help: "Valuation requests by the cascade step that produced the result",
		},
		[]string{"resolved_by"},
	)
	PinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipfs_pins_total",
			Help: "IPFS pin operations by kind (json, file) and mode (remote, mock, error)",
		},
		[]string{"kind", "mode"},
	)
	MintsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nft_mints_total",
			Help: "NFT mint attempts by outcome",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(MongoOperationDuration)
		prometheus.MustRegister(MongoErrorsTotal)
		prometheus.MustRegister(RedisOperationDuration)
		prometheus.MustRegister(RedisErrorsTotal)
		prometheus.MustRegister(SessionLookupsTotal)
		prometheus.MustRegister(OpenDataRequestsTotal)
		prometheus.MustRegister(OpenDataRequestDuration)
		prometheus.MustRegister(ValuationResolutionsTotal)
		prometheus.MustRegister(PinsTotal)
		prometheus.MustRegister(MintsTotal)
	})
}
