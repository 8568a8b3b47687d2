package process

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace     = "cpf"
	subsystem     = "process"
	providerLabel = "provider"
	successLabel  = "success"
	reasonLabel   = "reason"

	dropReasonInvalid    = "invalid"
	dropReasonUnmappable = "unmappable"
)

var (
	itemsInCache = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_in_cache",
			Help:      "Number of provider catalogs in the cache.",
		}, nil)

	providerProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "provider_total",
			Help:      "Number of processings per provider, including successful and failed.",
		},
		[]string{successLabel, providerLabel},
	)

	instancesCollected = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "instances_collected",
			Help:      "Number of instances collected in the last successful run per provider.",
		},
		[]string{providerLabel},
	)

	recordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "records_dropped_total",
			Help:      "Raw records dropped during validation or normalization.",
		},
		[]string{providerLabel, reasonLabel},
	)

	snapshotInstances = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "snapshot_instances",
			Help:      "Total instances in the last written snapshot.",
		}, nil)

	snapshotWrittenTimeStamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "snapshot_written_timestamp_seconds",
			Help:      "Unix timestamp (in seconds) of the last successful snapshot write.",
		}, nil)
)

func recordItemsInCache(count float64) {
	itemsInCache.WithLabelValues().Set(count)
}

func recordProviderProcessed(success bool, providerName string) {
	// the order of the values should be the same as defined in the metric declaration.
	providerProcessed.WithLabelValues(
		strconv.FormatBool(success),
		providerName,
	).Inc()
}

func recordInstancesCollected(providerName string, count int) {
	instancesCollected.WithLabelValues(providerName).Set(float64(count))
}

func recordRecordDropped(providerName, reason string) {
	recordsDropped.WithLabelValues(providerName, reason).Inc()
}

func recordSnapshotWritten(totalInstances int) {
	snapshotInstances.WithLabelValues().Set(float64(totalInstances))
	snapshotWrittenTimeStamp.WithLabelValues().SetToCurrentTime()
}
