package hetzner

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace     = "cpf"
	subsystem     = "hetzner"
	responseLabel = "status"
	pathLabel     = "path"
)

var apiLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of requests against the Hetzner Cloud API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{responseLabel, pathLabel},
)

func recordAPILatency(duration time.Duration, statusCode int, path string) {
	apiLatency.WithLabelValues(strconv.Itoa(statusCode), path).Observe(duration.Seconds())
}
