// Package metrics exposes Prometheus counters for form submissions and
// agent changes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts submission outcomes and agent changes.
type Recorder struct {
	submissions *prometheus.CounterVec
	agents      *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexa",
			Name:      "form_submissions_total",
			Help:      "Credential form submissions by form and outcome.",
		}, []string{"form", "outcome"}),
		agents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexa",
			Name:      "agent_changes_total",
			Help:      "Agent create and delete operations.",
		}, []string{"op"}),
	}
	reg.MustRegister(r.submissions, r.agents)
	return r
}

// Submission counts one settled submission.
func (r *Recorder) Submission(form, outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(form, outcome).Inc()
}

// AgentChange counts one agent create or delete.
func (r *Recorder) AgentChange(op string) {
	if r == nil {
		return
	}
	r.agents.WithLabelValues(op).Inc()
}
