package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cognita-hq/tutela/pkg/cognition"
	"cognita-hq/tutela/pkg/fallback"
	"cognita-hq/tutela/pkg/governance"
	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/risk"
	"cognita-hq/tutela/pkg/session"
	"cognita-hq/tutela/pkg/signals"
	"cognita-hq/tutela/pkg/trace"
)

// stagnationWindow bounds how far back consecutive test failures count
// toward stagnation.
const stagnationWindow = 30 * time.Minute

// Config contains the engine's collaborators. Zero-value fields get
// defaults; only the catalog is mandatory through NewEngine's default.
type Config struct {
	// Catalog is the compiled pattern catalog. Nil selects the default
	// curated catalog.
	Catalog *signals.Catalog

	// ClassifierConfig tunes classification confidence. Nil selects
	// defaults.
	ClassifierConfig *signals.ClassifierConfig

	// AnalystConfig tunes the risk dimension thresholds. Nil selects
	// defaults.
	AnalystConfig *risk.AnalystConfig

	// Gate is the optional LLM fallback gate. Nil disables the fallback
	// path entirely.
	Gate *fallback.Gate

	// Composer assembles trace records. Nil selects the wall-clock UUID
	// composer; tests inject a deterministic one.
	Composer *trace.Composer

	// Metrics is the optional Prometheus instrumentation. Nil disables it.
	Metrics *Metrics

	// Now is the clock used for session-metric derivation. Nil selects
	// time.Now.
	Now func() time.Time
}

// Result is everything one pipeline invocation produces.
type Result struct {
	// Signals is the final signal set, including any fallback-merged
	// categories.
	Signals signals.SignalSet

	// Confidence is the classification confidence in [0, 1].
	Confidence float64

	// CognitiveState is the state after this interaction.
	CognitiveState cognition.State

	// Findings are the risk findings, grouped by dimension.
	Findings []risk.Finding

	// Verdict is the governance outcome.
	Verdict governance.Verdict

	// Trace is the composed trace record. The caller hands it to the
	// persistence collaborator; the engine never stores it.
	Trace *trace.Record
}

// Engine runs the classification and governance pipeline. It is immutable
// after construction and safe for concurrent use across sessions.
type Engine struct {
	classifier *signals.Classifier
	analyst    *risk.Analyst
	gate       *fallback.Gate
	composer   *trace.Composer
	metrics    *Metrics
	now        func() time.Time
	logger     *slog.Logger
}

// NewEngine creates an engine from the given configuration.
func NewEngine(cfg Config) (*Engine, error) {
	catalog := cfg.Catalog
	if catalog == nil {
		var err error
		catalog, err = signals.NewCatalog(signals.DefaultCatalogConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to build default catalog: %w", err)
		}
	}

	composer := cfg.Composer
	if composer == nil {
		composer = trace.NewComposer()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		classifier: signals.NewClassifierWithConfig(catalog, cfg.ClassifierConfig),
		analyst:    risk.NewAnalyst(catalog, cfg.AnalystConfig),
		gate:       cfg.Gate,
		composer:   composer,
		metrics:    cfg.Metrics,
		now:        now,
		logger:     slog.Default().With("component", "engine"),
	}, nil
}

// ClassifyAndGovern runs one interaction through the full pipeline.
//
// Policy misconfiguration is the only error: it aborts at entry because
// evaluating against a broken policy would produce meaningless verdicts.
// Everything else degrades locally and the pipeline completes.
func (e *Engine) ClassifyAndGovern(ctx context.Context, interaction *session.Interaction, history *session.History, pol *policy.Policy) (*Result, error) {
	start := e.now()

	if err := policy.Validate(pol); err != nil {
		return nil, err
	}

	text := interaction.NormalizedText
	if text == "" {
		text = signals.Normalize(interaction.RawText)
	}

	set, confidence := e.classifier.Classify(interaction.RawText)

	// Fallback refinement: one bounded outbound call when the heuristic
	// result is too uncertain. Failure keeps the heuristic result.
	if e.gate != nil {
		if result := e.gate.MaybeClassify(ctx, text, set, confidence); result != nil {
			set = mergeFallback(set, result)
			if result.Confidence > confidence {
				confidence = result.Confidence
			}
			e.metrics.RecordFallbackOutcome("merged")
		} else {
			e.metrics.RecordFallbackOutcome("heuristic")
		}
		e.metrics.UpdateFallbackInFlight(e.gate.Limiter().Current())
	}

	involvement := signals.EstimateInvolvement(set)

	metrics := sessionMetrics(history, e.now())
	state := cognition.NextState(priorState(history), set, metrics)

	findings := e.analyst.Assess(ctx, interaction, history, pol)

	verdict := governance.Evaluate(set, findings, pol)

	record := e.composer.Compose(trace.ComposeInput{
		Interaction:   interaction,
		State:         state,
		Signals:       set,
		AIInvolvement: involvement,
		Findings:      findings,
		Verdict:       verdict,
		PriorTraceID:  priorTraceID(history),
	})

	e.metrics.RecordVerdict(string(verdict.Level), string(verdict.Routing))
	e.metrics.RecordFindings(findings)
	e.metrics.RecordDuration(e.now().Sub(start).Seconds())

	e.logger.Debug("interaction governed",
		"interaction_id", interaction.ID,
		"session_id", interaction.SessionID,
		"intent", string(set.Intent()),
		"state", string(state),
		"level", string(verdict.Level),
		"routing", string(verdict.Routing),
		"findings", len(findings),
	)

	return &Result{
		Signals:        set,
		Confidence:     confidence,
		CognitiveState: state,
		Findings:       findings,
		Verdict:        verdict,
		Trace:          record,
	}, nil
}

// mergeFallback clones the heuristic set and records the model-assigned
// categories as model matches. Heuristic evidence is never discarded.
func mergeFallback(set signals.SignalSet, result *fallback.Result) signals.SignalSet {
	merged := set.Clone()
	for _, category := range result.Categories {
		if merged.Has(category) {
			continue
		}
		merged.AddMatch(signals.Match{
			Category: category,
			Pattern:  "fallback",
			Kind:     signals.MatchModel,
		})
	}
	return merged
}

// priorState reads the prior cognitive state from the history, defaulting
// to the initial state.
func priorState(history *session.History) cognition.State {
	if history == nil || history.PriorState == "" {
		return cognition.StateInicio
	}
	return cognition.State(history.PriorState)
}

func priorTraceID(history *session.History) string {
	if history == nil {
		return ""
	}
	return history.PriorTraceID
}

// sessionMetrics derives the state-machine inputs from the session event
// stream. Missing history yields the zero value, which fires no transition.
func sessionMetrics(history *session.History, now time.Time) cognition.Metrics {
	if history == nil {
		return cognition.Metrics{}
	}

	m := cognition.Metrics{
		AttemptNumber:       history.AttemptCount(),
		ConsecutiveFailures: history.ConsecutiveFailures(stagnationWindow, now),
		NewTask:             history.NewTask,
		CodeSubmitted:       submittedThisTurn(history),
	}

	// Most recent test run decides failed/passed.
	for i := len(history.Events) - 1; i >= 0; i-- {
		ev := history.Events[i]
		if ev.Kind != session.EventTestResult {
			continue
		}
		m.TestFailed = !ev.Passed
		m.AllTestsPassed = ev.Passed
		break
	}

	if submissions := history.Submissions(); len(submissions) >= 2 {
		prev := submissions[len(submissions)-2].Text
		last := submissions[len(submissions)-1].Text
		m.ChangeRatio = risk.ChangeRatio(prev, last)
	}

	m.TimeSinceProgress = timeSinceProgress(history, now)

	return m
}

// submittedThisTurn reports whether the learner submitted code since their
// previous message. A submission is normally followed by its test_result
// event, so only a newer learner message closes the turn.
func submittedThisTurn(history *session.History) bool {
	for i := len(history.Events) - 1; i >= 0; i-- {
		switch history.Events[i].Kind {
		case session.EventSubmission:
			return true
		case session.EventMessage:
			return false
		}
	}
	return false
}

// timeSinceProgress measures how long the learner has gone without a
// passing test run, falling back to session start.
func timeSinceProgress(history *session.History, now time.Time) time.Duration {
	for i := len(history.Events) - 1; i >= 0; i-- {
		ev := history.Events[i]
		if ev.Kind == session.EventTestResult && ev.Passed {
			return now.Sub(ev.Timestamp)
		}
	}
	if history.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(history.StartedAt)
}
