package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

var (
	// Per-target delivery attempts partitioned by platform and result
	dispatchTargetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_targets_total",
			Help: "Total number of per-target delivery attempts",
		},
		[]string{"platform", "result"},
	)
)

func recordTarget(platform, result string) {
	dispatchTargetsTotal.With(prometheus.Labels{
		"platform": platform,
		"result":   result,
	}).Inc()
}
