package form

import (
	"strings"
	"sync"
)

// descriptionLineBudget is the visual clamp applied to collapsed
// descriptions.
const descriptionLineBudget = 3

// defaultLineWidth approximates how many characters fit on one rendered
// description line when the caller supplies no measurement width.
const defaultLineWidth = 80

// OverflowTracker tracks the expand/collapse state of per-field description
// blocks. Every key starts collapsed. While collapsed, each render pass
// re-measures whether the description exceeds the line budget and exposes an
// expand affordance when it does. Once a key has been expanded the collapse
// control stays available even if a later measurement would not trigger it;
// transitions happen only on explicit user toggles.
//
// The tracker is shared between the render path and the toggle action, so
// it carries its own lock.
type OverflowTracker struct {
	mu     sync.Mutex
	states map[string]*overflowState
}

type overflowState struct {
	expanded     bool
	clamped      bool
	everExpanded bool
}

// NewOverflowTracker returns a tracker with every key collapsed.
func NewOverflowTracker() *OverflowTracker {
	return &OverflowTracker{states: make(map[string]*overflowState)}
}

// Measure records whether key's description currently exceeds the clamp.
// Width is the assumed characters-per-line; pass 0 for the default.
func (t *OverflowTracker) Measure(key, description string, width int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state := t.state(key)
	if state.expanded {
		// No re-measurement while expanded; collapse is user-initiated only.
		return
	}
	state.clamped = EstimateLines(description, width) > descriptionLineBudget
}

// Toggle flips key between collapsed and expanded.
func (t *OverflowTracker) Toggle(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state := t.state(key)
	state.expanded = !state.expanded
	if state.expanded {
		state.everExpanded = true
	}
}

// Expanded reports whether key is currently expanded.
func (t *OverflowTracker) Expanded(key string) bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[key]
	return ok && state.expanded
}

// ShowsAffordance reports whether the expand/collapse control renders for
// key: collapsed keys show it when the last measurement exceeded the budget,
// previously expanded keys keep it unconditionally.
func (t *OverflowTracker) ShowsAffordance(key string) bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[key]
	if !ok {
		return false
	}
	return state.expanded || state.everExpanded || state.clamped
}

// state returns key's entry, creating it collapsed. Callers hold t.mu.
func (t *OverflowTracker) state(key string) *overflowState {
	if state, ok := t.states[key]; ok {
		return state
	}
	state := &overflowState{}
	t.states[key] = state
	return state
}

// EstimateLines approximates how many lines a description occupies when
// wrapped at width characters. Rich markup is measured as text; the server
// has no real layout engine, so this is a character-count heuristic.
func EstimateLines(text string, width int) int {
	if width <= 0 {
		width = defaultLineWidth
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	lines := 0
	for _, line := range strings.Split(text, "\n") {
		runes := len([]rune(strings.TrimRight(line, " ")))
		if runes == 0 {
			lines++
			continue
		}
		lines += (runes + width - 1) / width
	}
	return lines
}
