package fallback

import (
	"context"
	"log/slog"
	"time"

	"cognita-hq/tutela/pkg/signals"
)

// Result is a validated fallback classification ready to merge into the
// heuristic signal set.
type Result struct {
	// Categories are the model-assigned categories, all known to the
	// catalog.
	Categories []signals.Category

	// Confidence is the model's confidence in [0, 1].
	Confidence float64
}

// GateConfig contains configuration for the fallback gate.
type GateConfig struct {
	// ConfidenceThreshold is the heuristic confidence below which the
	// gate is consulted. Default: 0.4
	ConfidenceThreshold float64

	// CallTimeout bounds each outbound call. Default: 3 seconds.
	CallTimeout time.Duration

	// MaxInFlight caps simultaneous outbound calls system-wide.
	// Default: 8
	MaxInFlight int
}

// DefaultGateConfig returns the default gate configuration.
func DefaultGateConfig() *GateConfig {
	return &GateConfig{
		ConfidenceThreshold: 0.4,
		CallTimeout:         3 * time.Second,
		MaxInFlight:         8,
	}
}

// Gate conditionally issues one bounded classification call when the
// heuristic result is too uncertain. Every failure mode returns nil, and
// the caller keeps the heuristic result.
type Gate struct {
	client  Client
	config  *GateConfig
	limiter *AdmissionLimiter
	known   map[signals.Category]struct{}
	logger  *slog.Logger
}

// NewGate creates a fallback gate around the given client. A nil client
// disables the gate entirely.
func NewGate(client Client, config *GateConfig) *Gate {
	if config == nil {
		config = DefaultGateConfig()
	}
	known := make(map[signals.Category]struct{}, len(signals.Categories))
	for _, category := range signals.Categories {
		known[category] = struct{}{}
	}
	return &Gate{
		client:  client,
		config:  config,
		limiter: NewAdmissionLimiter(config.MaxInFlight),
		known:   known,
		logger:  slog.Default().With("component", "fallback.gate"),
	}
}

// Limiter exposes the admission limiter for instrumentation.
func (g *Gate) Limiter() *AdmissionLimiter {
	return g.limiter
}

// MaybeClassify issues one bounded call when confidence is below the
// threshold. It returns nil whenever the heuristic result should stand:
// confidence is high enough, no client is configured, the limiter is at
// capacity, the call times out or errors, or the response is malformed.
func (g *Gate) MaybeClassify(ctx context.Context, text string, recent signals.SignalSet, confidence float64) *Result {
	if g.client == nil || confidence >= g.config.ConfidenceThreshold {
		return nil
	}
	if text == "" {
		return nil
	}

	if !g.limiter.Acquire(ctx) {
		g.logger.Debug("fallback call skipped, admission limit reached",
			"in_flight", g.limiter.Current(),
			"limit", g.limiter.Limit(),
		)
		return nil
	}
	defer g.limiter.Release()

	callCtx, cancel := context.WithTimeout(ctx, g.config.CallTimeout)
	defer cancel()

	resp, err := g.client.Classify(callCtx, Request{
		Prompt:  text,
		Context: recent.Active(),
	})
	if err != nil {
		g.logger.Warn("fallback call failed, keeping heuristic result", "error", err)
		return nil
	}

	result, ok := g.validate(resp)
	if !ok {
		g.logger.Warn("fallback response malformed, keeping heuristic result")
		return nil
	}
	return result
}

// validate rejects responses outside the structured contract: nil
// responses, confidence outside [0, 1], or categories the catalog does
// not know.
func (g *Gate) validate(resp *Response) (*Result, bool) {
	if resp == nil {
		return nil, false
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return nil, false
	}
	for _, category := range resp.Categories {
		if _, ok := g.known[category]; !ok {
			return nil, false
		}
	}
	return &Result{
		Categories: append([]signals.Category(nil), resp.Categories...),
		Confidence: resp.Confidence,
	}, true
}
