package protocol

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultAbort   = "abort"
	resultStopped = "stopped"
)

// Metrics counts protocol executions and finalized rounds.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	sessions *prometheus.CounterVec
	rounds   *prometheus.CounterVec
}

// NewMetrics creates the protocol counters and registers them with reg.
// If the counters were already registered with reg, the existing ones are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tss",
		Name:      "sessions_total",
		Help:      "Number of finished protocol executions, by protocol and result.",
	}, []string{"protocol", "result"})
	rounds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tss",
		Name:      "session_rounds_total",
		Help:      "Number of finalized rounds, by protocol.",
	}, []string{"protocol"})

	m := &Metrics{}
	var err error
	if m.sessions, err = registerCounterVec(reg, sessions); err != nil {
		return nil, err
	}
	if m.rounds, err = registerCounterVec(reg, rounds); err != nil {
		return nil, err
	}
	return m, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *Metrics) roundFinalized(protocolID string) {
	if m == nil {
		return
	}
	m.rounds.WithLabelValues(protocolID).Inc()
}

func (m *Metrics) sessionFinished(protocolID, result string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(protocolID, result).Inc()
}
