package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopease",
			Name:      "kafka_messages_published_total",
			Help:      "Total number of events published",
		},
		[]string{"topic"},
	)

	publishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopease",
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of failed publish attempts",
		},
		[]string{"topic"},
	)

	publishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopease",
			Name:      "kafka_publish_duration_seconds",
			Help:      "Duration of publish calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
)
