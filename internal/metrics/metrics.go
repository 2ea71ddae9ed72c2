// Package metrics exposes the outcome of a pipeline run as Prometheus gauges.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/spigell/rfp-responder/internal/pipeline"
	"github.com/spigell/rfp-responder/internal/scoring"
)

const namespace = "rfp_responder"

// Run holds the gauges describing a single run on a private registry.
type Run struct {
	registry *prometheus.Registry

	RFPsScored      prometheus.Gauge
	RFPsByPriority  *prometheus.GaugeVec
	RFPsSelected    prometheus.Gauge
	Recommendations *prometheus.GaugeVec
	BidValue        prometheus.Gauge
	LastRun         prometheus.Gauge
}

func New() *Run {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Run{
		registry: reg,
		RFPsScored: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rfps_scored",
			Help:      "Number of RFPs scored in the last run",
		}),
		RFPsByPriority: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rfps_by_priority",
			Help:      "Number of scored RFPs per priority tier",
		}, []string{"priority"}),
		RFPsSelected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rfps_selected",
			Help:      "Number of RFPs selected within capacity",
		}),
		Recommendations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recommendations",
			Help:      "Number of recommendations per decision",
		}, []string{"decision"}),
		BidValue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bid_value_total",
			Help:      "Sum of final bid values of Bid recommendations",
		}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last run",
		}),
	}
}

// Observe records the outcome of a run.
func (m *Run) Observe(state *pipeline.State) {
	m.RFPsScored.Set(float64(len(state.Scored)))
	m.RFPsSelected.Set(float64(len(state.Selected)))

	for _, p := range []scoring.Priority{scoring.PriorityHigh, scoring.PriorityMedium, scoring.PriorityLow, scoring.PriorityDiscarded} {
		m.RFPsByPriority.WithLabelValues(string(p)).Set(0)
	}
	for _, s := range state.Scored {
		m.RFPsByPriority.WithLabelValues(string(s.Priority)).Inc()
	}

	var bidValue int64
	for _, d := range []pipeline.Decision{pipeline.DecisionBid, pipeline.DecisionNoBid} {
		m.Recommendations.WithLabelValues(string(d)).Set(float64(pipeline.CountDecision(state.Recommendations, d)))
	}
	for _, r := range state.Recommendations {
		if r.Decision == pipeline.DecisionBid {
			bidValue += r.Quote.FinalBidValue
		}
	}
	m.BidValue.Set(float64(bidValue))
	m.LastRun.Set(float64(state.RanAt.Unix()))
}

// Gatherer exposes the private registry.
func (m *Run) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the gauges in the text exposition format, for the
// node exporter textfile collector.
func (m *Run) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile %q: %w", path, err)
	}
	return nil
}
