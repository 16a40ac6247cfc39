package policy

import (
	"errors"
	"strings"
	"testing"
)

func TestLoad_ValidPolicy(t *testing.T) {
	data := []byte(`
max_ai_assistance_level: 0.4
block_complete_solutions: true
max_copy_paste_chars: 200
min_typing_speed_threshold_chars_per_sec: 10
max_session_hours: 2
require_justification: true
allow_escalation: false
`)

	p, err := Load(data)
	if err != nil {
		t.Fatalf("expected valid policy to load, got error: %v", err)
	}

	if p.MaxAIAssistanceLevel != 0.4 {
		t.Errorf("expected max_ai_assistance_level 0.4, got %g", p.MaxAIAssistanceLevel)
	}
	if !p.BlockCompleteSolutions {
		t.Error("expected block_complete_solutions true")
	}
	if p.MaxCopyPasteChars != 200 {
		t.Errorf("expected max_copy_paste_chars 200, got %d", p.MaxCopyPasteChars)
	}
	if p.AllowEscalation {
		t.Error("expected allow_escalation false")
	}
}

func TestLoad_PartialPolicyKeepsDefaults(t *testing.T) {
	data := []byte(`max_session_hours: 1`)

	p, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defaults := Default()
	if p.MaxSessionHours != 1 {
		t.Errorf("expected max_session_hours 1, got %g", p.MaxSessionHours)
	}
	if p.MaxAIAssistanceLevel != defaults.MaxAIAssistanceLevel {
		t.Errorf("unset option should keep default, got %g", p.MaxAIAssistanceLevel)
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	data := []byte(`
max_session_hours: 2
max_sesion_hours: 3
`)

	_, err := Load(data)
	if err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
	if !strings.Contains(err.Error(), "max_sesion_hours") {
		t.Errorf("error should name the unknown key, got: %v", err)
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "assistance level above one", yaml: `max_ai_assistance_level: 1.5`},
		{name: "negative copy paste chars", yaml: `max_copy_paste_chars: -1`},
		{name: "negative typing speed", yaml: `min_typing_speed_threshold_chars_per_sec: -3`},
		{name: "negative session hours", yaml: `max_session_hours: -1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected validation to fail")
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestLoadSet_MultiActivity(t *testing.T) {
	data := []byte(`
default:
  max_ai_assistance_level: 0.6
activities:
  exam-1:
    max_ai_assistance_level: 0.1
    block_complete_solutions: true
  practice:
    max_ai_assistance_level: 0.8
    block_complete_solutions: false
`)

	activities, def, err := LoadSet(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if def.MaxAIAssistanceLevel != 0.6 {
		t.Errorf("expected default level 0.6, got %g", def.MaxAIAssistanceLevel)
	}
	if activities["exam-1"].MaxAIAssistanceLevel != 0.1 {
		t.Errorf("expected exam-1 level 0.1, got %g", activities["exam-1"].MaxAIAssistanceLevel)
	}
	if activities["practice"].BlockCompleteSolutions {
		t.Error("expected practice to allow complete solutions")
	}
}

func TestLoadSet_InvalidActivityAborts(t *testing.T) {
	data := []byte(`
activities:
  broken:
    max_session_hours: -5
`)

	_, _, err := LoadSet(data)
	if err == nil {
		t.Fatal("expected invalid activity policy to abort the load")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error should name the activity, got: %v", err)
	}
}
