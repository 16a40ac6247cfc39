package risk

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/session"
	"cognita-hq/tutela/pkg/signals"
)

// AnalystConfig tunes the risk dimension thresholds.
type AnalystConfig struct {
	// RollingWindow is the number of recent interactions used for the
	// ai_involvement rolling mean. Default: 5
	RollingWindow int

	// CritiqueWindow is how long after an AI response a learner critique
	// still counts as engaging with it. Default: 3 minutes
	CritiqueWindow time.Duration

	// UncritiquedRatioThreshold is the fraction of uncritiqued AI
	// responses above which an epistemic finding is emitted. Default: 0.5
	UncritiquedRatioThreshold float64

	// MinResponsesForEpistemic is the minimum number of AI responses
	// before the epistemic ratio is meaningful. Default: 3
	MinResponsesForEpistemic int

	// StrategyChangeRatio is the structural-change fraction above which a
	// submission counts as a strategy change. Default: 0.5
	StrategyChangeRatio float64

	// MinMessageInterval is the mean message gap below which traffic looks
	// automated. Default: 2 seconds
	MinMessageInterval time.Duration

	// IntervalVarianceFloor is the interval variance (in seconds squared)
	// below which timing is considered machine-regular. Default: 0.05
	IntervalVarianceFloor float64

	// MinIntervalsForTraffic is the minimum number of message intervals
	// before the traffic check applies. Default: 3
	MinIntervalsForTraffic int
}

// DefaultAnalystConfig returns the default analyst configuration.
func DefaultAnalystConfig() *AnalystConfig {
	return &AnalystConfig{
		RollingWindow:             5,
		CritiqueWindow:            3 * time.Minute,
		UncritiquedRatioThreshold: 0.5,
		MinResponsesForEpistemic:  3,
		StrategyChangeRatio:       0.5,
		MinMessageInterval:        2 * time.Second,
		IntervalVarianceFloor:     0.05,
		MinIntervalsForTraffic:    3,
	}
}

// Analyst evaluates the five risk dimensions. It is immutable after
// construction and safe for concurrent use across sessions.
type Analyst struct {
	config  *AnalystConfig
	catalog *signals.Catalog
	vulns   []vulnPattern
	logger  *slog.Logger
}

// NewAnalyst creates a risk analyst. The catalog supplies the curated
// delegation-phrase set used by the cognitive dimension.
func NewAnalyst(catalog *signals.Catalog, cfg *AnalystConfig) *Analyst {
	if cfg == nil {
		cfg = DefaultAnalystConfig()
	}
	return &Analyst{
		config:  cfg,
		catalog: catalog,
		vulns:   compileVulnPatterns(),
		logger:  slog.Default().With("component", "risk.analyst"),
	}
}

// dimensionFunc is one dimension evaluator. Evaluators never fail: a
// dimension that cannot evaluate returns no findings.
type dimensionFunc func(interaction *session.Interaction, history *session.History, pol *policy.Policy) []Finding

// Assess evaluates all five dimensions concurrently and returns the merged
// findings. The result order groups findings by dimension in a fixed order
// so repeated calls on identical input are identical.
func (a *Analyst) Assess(ctx context.Context, interaction *session.Interaction, history *session.History, pol *policy.Policy) []Finding {
	dimensions := []dimensionFunc{
		a.assessCognitive,
		a.assessEthical,
		a.assessEpistemic,
		a.assessTechnical,
		a.assessGovernance,
	}

	results := make([][]Finding, len(dimensions))

	g, _ := errgroup.WithContext(ctx)
	for i, dim := range dimensions {
		i, dim := i, dim
		g.Go(func() error {
			results[i] = dim(interaction, history, pol)
			return nil
		})
	}
	// Evaluators never return errors; the group is used for the join.
	_ = g.Wait()

	var findings []Finding
	for _, r := range results {
		findings = append(findings, r...)
	}

	if len(findings) > 0 {
		a.logger.Debug("risk findings emitted",
			"interaction_id", interaction.ID,
			"count", len(findings),
			"max_severity", string(MaxSeverity(findings)),
		)
	}

	return findings
}
