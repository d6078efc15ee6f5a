package stash

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring service.
var (
	//globalRecordsAdded prometheus metric.
	globalRecordsAdded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of global state records added to the stash",
			Name:      "global_records_added",
			Namespace: "weft",
		},
	)
	//ownedAssignmentsAdded prometheus metric.
	ownedAssignmentsAdded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of owned state assignments added to the stash",
			Name:      "owned_assignments_added",
			Namespace: "weft",
		},
	)
	//witnessesReindexed prometheus metric.
	witnessesReindexed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of witnesses re-resolved during reindexing",
			Name:      "witnesses_reindexed",
			Namespace: "weft",
		},
	)
)

func init() {
	prometheus.MustRegister(
		globalRecordsAdded,
		ownedAssignmentsAdded,
		witnessesReindexed,
	)
}
