package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cognita-hq/tutela/pkg/engine"
	"cognita-hq/tutela/pkg/policy"
	"cognita-hq/tutela/pkg/session"
)

var evaluateFlags struct {
	policyFile string
	format     string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <transcript>",
	Short: "Replay a session transcript through the engine",
	Long: `Replay a recorded session transcript through the full pipeline and
print the verdict for every learner message.

The transcript is a YAML file:

  session_id: demo
  started_at: 2026-01-10T09:00:00Z
  entries:
    - kind: message
      at: 2026-01-10T09:00:05Z
      text: "¿Cómo funciona una lista enlazada?"
    - kind: submission
      at: 2026-01-10T09:04:00Z
      text: |
        def insert(head, value): ...
    - kind: test_result
      at: 2026-01-10T09:04:10Z
      passed: false

Examples:
  # Evaluate with a policy file
  tutela evaluate --policy policy.yaml transcript.yaml

  # Default policy, JSON output
  tutela evaluate --format json transcript.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: evaluateTranscript,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.policyFile, "policy", "p", "", "policy file (defaults to the built-in policy)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.format, "format", "text", "output format: text, json")
}

// transcript is the on-disk shape of a recorded session.
type transcript struct {
	SessionID string            `yaml:"session_id"`
	StartedAt time.Time         `yaml:"started_at"`
	Entries   []transcriptEntry `yaml:"entries"`
}

type transcriptEntry struct {
	Kind   string    `yaml:"kind"`
	At     time.Time `yaml:"at"`
	Text   string    `yaml:"text"`
	Passed bool      `yaml:"passed"`
}

// verdictLine is one evaluated message in the output.
type verdictLine struct {
	Text       string   `json:"text"`
	Intent     string   `json:"intent"`
	State      string   `json:"state"`
	Level      string   `json:"level"`
	Routing    string   `json:"routing"`
	Confidence float64  `json:"confidence"`
	Findings   []string `json:"findings,omitempty"`
	TraceID    string   `json:"trace_id"`
}

func evaluateTranscript(cmd *cobra.Command, args []string) error {
	pol := policy.Default()
	if evaluateFlags.policyFile != "" {
		loaded, err := policy.LoadFile(evaluateFlags.policyFile)
		if err != nil {
			return err
		}
		pol = loaded
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read transcript %s: %w", args[0], err)
	}

	var t transcript
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return fmt.Errorf("failed to parse transcript: %w", err)
	}

	eng, err := engine.NewEngine(engine.Config{})
	if err != nil {
		return err
	}

	history := &session.History{
		SessionID: t.SessionID,
		StartedAt: t.StartedAt,
	}

	ctx := context.Background()
	var lines []verdictLine

	for _, entry := range t.Entries {
		if entry.Kind != string(session.EventMessage) {
			history.Events = append(history.Events, session.Event{
				Kind:      session.EventKind(entry.Kind),
				Timestamp: entry.At,
				Text:      entry.Text,
				Passed:    entry.Passed,
			})
			continue
		}

		interaction := &session.Interaction{
			ID:        uuid.New().String(),
			SessionID: t.SessionID,
			Timestamp: entry.At,
			RawText:   entry.Text,
		}

		result, err := eng.ClassifyAndGovern(ctx, interaction, history, pol)
		if err != nil {
			return err
		}

		line := verdictLine{
			Text:       entry.Text,
			Intent:     string(result.Signals.Intent()),
			State:      string(result.CognitiveState),
			Level:      string(result.Verdict.Level),
			Routing:    string(result.Verdict.Routing),
			Confidence: result.Confidence,
			TraceID:    result.Trace.ID,
		}
		for _, f := range result.Findings {
			line.Findings = append(line.Findings,
				fmt.Sprintf("%s/%s: %s", f.Dimension, f.Severity, f.Code))
		}
		lines = append(lines, line)

		// Fold the governed interaction back into the history so the next
		// message sees it.
		history.Events = append(history.Events, session.Event{
			Kind:      session.EventMessage,
			Timestamp: entry.At,
			Text:      entry.Text,
		})
		history.Interactions = append(history.Interactions, *interaction)
		history.AIInvolvement = append(history.AIInvolvement, result.Trace.AIInvolvement)
		history.PriorTraceID = result.Trace.ID
		history.PriorState = string(result.CognitiveState)
	}

	if evaluateFlags.format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(lines)
	}

	for _, line := range lines {
		fmt.Printf("%-9s %-9s %-18s %s\n", line.Level, line.Routing, line.State, line.Text)
		for _, f := range line.Findings {
			fmt.Printf("          finding: %s\n", f)
		}
	}
	return nil
}
