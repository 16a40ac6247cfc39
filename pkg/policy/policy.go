package policy

// Policy is the institutional configuration governing one activity or
// session. All fields are read-only inputs to the engine.
type Policy struct {
	// MaxAIAssistanceLevel is the allowed rolling mean of ai_involvement
	// over recent interactions, in [0, 1].
	MaxAIAssistanceLevel float64 `yaml:"max_ai_assistance_level" json:"max_ai_assistance_level"`

	// BlockCompleteSolutions blocks interactions whose intent is a request
	// for a complete solution.
	BlockCompleteSolutions bool `yaml:"block_complete_solutions" json:"block_complete_solutions"`

	// MaxCopyPasteChars is the submission length above which authorship
	// speed is checked.
	MaxCopyPasteChars int `yaml:"max_copy_paste_chars" json:"max_copy_paste_chars"`

	// MinTypingSpeedThreshold is the minimum plausible typing speed in
	// characters per second used by the authorship check.
	MinTypingSpeedThreshold float64 `yaml:"min_typing_speed_threshold_chars_per_sec" json:"min_typing_speed_threshold_chars_per_sec"`

	// MaxSessionHours is the session duration ceiling before a governance
	// finding is emitted.
	MaxSessionHours float64 `yaml:"max_session_hours" json:"max_session_hours"`

	// RequireJustification requires learner justification text when a
	// strategy change is detected.
	RequireJustification bool `yaml:"require_justification" json:"require_justification"`

	// AllowEscalation permits routing frustrated learners to a human
	// instead of blocking or answering.
	AllowEscalation bool `yaml:"allow_escalation" json:"allow_escalation"`
}

// Default returns a permissive baseline policy.
func Default() *Policy {
	return &Policy{
		MaxAIAssistanceLevel:    0.6,
		BlockCompleteSolutions:  true,
		MaxCopyPasteChars:       300,
		MinTypingSpeedThreshold: 8,
		MaxSessionHours:         4,
		RequireJustification:    false,
		AllowEscalation:         true,
	}
}

// Restriction names a policy-declared limit that a verdict may activate.
// The semaphore only ever activates restrictions declared by the policy.
type Restriction string

const (
	// RestrictionNoCompleteSolutions forbids emitting complete solutions.
	RestrictionNoCompleteSolutions Restriction = "no_complete_solutions"

	// RestrictionGuidedOnly forces the most restrictive response strategy
	// available to the reply generator.
	RestrictionGuidedOnly Restriction = "guided_responses_only"

	// RestrictionJustificationRequired requires justification text on the
	// next strategy change.
	RestrictionJustificationRequired Restriction = "justification_required"

	// RestrictionSessionCapped signals the session duration ceiling.
	RestrictionSessionCapped Restriction = "session_capped"
)

// DeclaredRestrictions returns the restrictions this policy declares, i.e.
// the universe the semaphore may activate from.
func (p *Policy) DeclaredRestrictions() []Restriction {
	var out []Restriction
	if p.BlockCompleteSolutions {
		out = append(out, RestrictionNoCompleteSolutions, RestrictionGuidedOnly)
	}
	if p.RequireJustification {
		out = append(out, RestrictionJustificationRequired)
	}
	if p.MaxSessionHours > 0 {
		out = append(out, RestrictionSessionCapped)
	}
	return out
}
