// Package metrics defines Prometheus counters for compliment generation.
// Counters are registered on the default registry and can be dumped in the
// standard text exposition format after a run.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Label values for GenerationsTotal.
const (
	SourceAPI      = "api"
	SourceFallback = "fallback"
)

// Label values for FallbacksTotal.
const (
	ReasonNoCredentials = "no_credentials"
	ReasonFatal         = "fatal"
	ReasonExhausted     = "exhausted"
)

// Label values for AttemptsTotal.
const (
	OutcomeSuccess   = "success"
	OutcomeTransient = "transient"
	OutcomeFatal     = "fatal"
)

var (
	// GenerationsTotal counts completed generate operations by result source.
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kudos_generations_total",
		Help: "Completed generate operations by result source.",
	}, []string{"source"})

	// FallbacksTotal counts fallback selections by reason.
	FallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kudos_fallbacks_total",
		Help: "Locally sourced compliments by reason.",
	}, []string{"reason"})

	// AttemptsTotal counts transport attempts by outcome.
	AttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kudos_transport_attempts_total",
		Help: "Transport attempts by outcome.",
	}, []string{"outcome"})
)

// Dump writes all gathered metrics to w in the text exposition format.
func Dump(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
