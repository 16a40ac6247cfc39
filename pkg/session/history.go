package session

import (
	"time"
)

// Duration returns how long the session has been running as of now.
func (h *History) Duration(now time.Time) time.Duration {
	if h.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(h.StartedAt)
}

// LastEvent returns the most recent event, if any.
func (h *History) LastEvent() (Event, bool) {
	if len(h.Events) == 0 {
		return Event{}, false
	}
	return h.Events[len(h.Events)-1], true
}

// LastEventBefore returns the most recent event strictly before t, if any.
func (h *History) LastEventBefore(t time.Time) (Event, bool) {
	for i := len(h.Events) - 1; i >= 0; i-- {
		if h.Events[i].Timestamp.Before(t) {
			return h.Events[i], true
		}
	}
	return Event{}, false
}

// Submissions returns all code submission events, oldest first.
func (h *History) Submissions() []Event {
	return h.eventsOfKind(EventSubmission)
}

// AttemptCount returns the number of code submissions so far.
func (h *History) AttemptCount() int {
	return len(h.Submissions())
}

// ConsecutiveFailures returns the number of trailing failed test runs that
// all occurred within the given window ending at now.
func (h *History) ConsecutiveFailures(window time.Duration, now time.Time) int {
	count := 0
	for i := len(h.Events) - 1; i >= 0; i-- {
		ev := h.Events[i]
		if ev.Kind != EventTestResult {
			continue
		}
		if ev.Passed {
			break
		}
		if window > 0 && now.Sub(ev.Timestamp) > window {
			break
		}
		count++
	}
	return count
}

// EventTimes returns the timestamps of all events of the given kind,
// oldest first. The event stream is ordered, so the result is sorted.
func (h *History) EventTimes(kind EventKind) []time.Time {
	events := h.eventsOfKind(kind)
	times := make([]time.Time, 0, len(events))
	for _, ev := range events {
		times = append(times, ev.Timestamp)
	}
	return times
}

// MessageIntervals returns the gaps between consecutive learner messages,
// oldest first. Used by the governance dimension to detect automated traffic.
func (h *History) MessageIntervals() []time.Duration {
	messages := h.eventsOfKind(EventMessage)
	if len(messages) < 2 {
		return nil
	}
	intervals := make([]time.Duration, 0, len(messages)-1)
	for i := 1; i < len(messages); i++ {
		intervals = append(intervals, messages[i].Timestamp.Sub(messages[i-1].Timestamp))
	}
	return intervals
}

// RollingAIInvolvement returns the mean ai_involvement over the last n prior
// interactions. Returns false when there is no involvement data.
func (h *History) RollingAIInvolvement(n int) (float64, bool) {
	if len(h.AIInvolvement) == 0 || n <= 0 {
		return 0, false
	}
	start := len(h.AIInvolvement) - n
	if start < 0 {
		start = 0
	}
	window := h.AIInvolvement[start:]
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window)), true
}

func (h *History) eventsOfKind(kind EventKind) []Event {
	var out []Event
	for _, ev := range h.Events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
