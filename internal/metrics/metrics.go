package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xavmarc/meetup-agent/internal/version"
)

var (
	// WebhookRequests counts fulfillment requests by intent and request source.
	WebhookRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetup_agent_webhook_requests_total",
			Help: "Number of fulfillment webhook requests received.",
		},
		[]string{"intent", "source"},
	)

	// WebhookFailures counts turns that fell back to the generic problem response.
	WebhookFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetup_agent_webhook_failures_total",
			Help: "Number of fulfillment turns answered with the fallback problem response.",
		},
		[]string{"reason"},
	)

	// MeetupAPIRequests counts outbound Meetup API calls by operation and status class.
	MeetupAPIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetup_agent_meetup_api_requests_total",
			Help: "Number of outbound Meetup API requests.",
		},
		[]string{"operation", "code"},
	)
)

// NewBuildInfoCollector returns a collector that exports metrics about current version
// information.
func NewBuildInfoCollector() prometheus.Collector {
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "meetup_agent_build_info",
			Help: "meetup-agent build metadata exposed as labels with a constant value of 1.",
			ConstLabels: prometheus.Labels{
				"version":    version.Get().Version,
				"git_commit": version.Get().GitCommit,
				"build_date": version.Get().BuildDate,
				"go_version": version.Get().GoVersion,
				"platform":   version.Get().Platform,
			},
		},
		func() float64 { return 1 },
	)
}

// Register registers all meetup-agent collectors with the given registerer.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		NewBuildInfoCollector(),
		WebhookRequests,
		WebhookFailures,
		MeetupAPIRequests,
	)
}
