// Package htmlform renders an actor input form from a parsed schema and its
// current value map, and decodes posted form state back into values. One
// control renders per resolved editor variant; properties that resolve to no
// editor stay hidden.
package htmlform

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/performate/performate/pkg/form"
	"github.com/performate/performate/pkg/schema"
)

// opField is the form key carrying structural actions (list add/remove),
// as opposed to value fields.
const opField = "__op"

type Option func(*Renderer)

// WithPolicy overrides the sanitizer applied to property descriptions.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.policy = policy
		}
	}
}

// WithLineWidth overrides the characters-per-line estimate used for the
// description clamp.
func WithLineWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.lineWidth = width
		}
	}
}

// Renderer produces the HTML for one form session. Descriptions may carry
// rich markup from the schema author; they pass through a bluemonday UGC
// policy before rendering.
type Renderer struct {
	policy    *bluemonday.Policy
	lineWidth int
}

func New(options ...Option) *Renderer {
	r := &Renderer{
		policy:    bluemonday.UGCPolicy(),
		lineWidth: 80,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// FormState is everything one render pass needs: the immutable schema, the
// current values, and the per-session overflow tracker.
type FormState struct {
	Schema  *schema.InputSchema
	Values  form.ValueMap
	Tracker *form.OverflowTracker

	// Action is the POST target for the form.
	Action string
	// Pending disables the submit control while a run is in flight.
	Pending bool
}

// RenderForm renders the full form body. A schema without properties yields
// a notice instead of fields.
func (r *Renderer) RenderForm(state FormState) (string, error) {
	var b strings.Builder

	b.WriteString(`<form method="post" action="`)
	b.WriteString(html.EscapeString(state.Action))
	b.WriteString(`" class="flex flex-col gap-4">` + "\n")

	if !state.Schema.HasProperties() {
		b.WriteString(`<p class="text-sm text-gray-500">This actor has no input schema.</p>` + "\n")
		b.WriteString(`</form>` + "\n")
		return b.String(), nil
	}

	for _, prop := range state.Schema.Properties {
		markup, err := r.renderField(prop, state)
		if err != nil {
			return "", err
		}
		b.WriteString(markup)
	}

	b.WriteString(`<button type="submit" name="` + opField + `" value="run"`)
	if state.Pending {
		b.WriteString(` disabled`)
	}
	b.WriteString(` class="mt-4 bg-blue-600 text-white rounded-lg px-6 py-3 font-semibold">`)
	if state.Pending {
		b.WriteString(`Running…`)
	} else {
		b.WriteString(`Run actor`)
	}
	b.WriteString(`</button>` + "\n")
	b.WriteString(`</form>` + "\n")
	return b.String(), nil
}

// renderField wraps the editor control with label, required marker and the
// clamped description block.
func (r *Renderer) renderField(prop schema.Property, state FormState) (string, error) {
	editor := form.ResolveEditor(prop)
	if editor == form.EditorNone {
		return "", nil
	}

	required := state.Schema.IsRequired(prop.Key)
	control, err := r.renderControl(editor, prop, state.Values[prop.Key], required)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(control) + 256)

	b.WriteString(`<div class="grid gap-2" data-editor="`)
	b.WriteString(html.EscapeString(string(editor)))
	b.WriteString(`">` + "\n")

	if editor != form.EditorCheckbox && strings.TrimSpace(fieldLabel(prop)) != "" {
		b.WriteString(`    <label for="pf-`)
		b.WriteString(html.EscapeString(prop.Key))
		b.WriteString(`" class="text-sm font-medium text-gray-900">`)
		b.WriteString(html.EscapeString(fieldLabel(prop)))
		if required {
			b.WriteString(` *`)
		}
		b.WriteString(`</label>` + "\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}

	// Checkbox labels already carry the description text.
	if editor != form.EditorCheckbox {
		b.WriteString(r.renderDescription(prop, state.Tracker))
	}

	b.WriteString(`</div>` + "\n")
	return b.String(), nil
}

// renderDescription emits the sanitized description inside the 3-line clamp
// wrapper, with a toggle affordance when the tracker calls for one.
func (r *Renderer) renderDescription(prop schema.Property, tracker *form.OverflowTracker) string {
	desc := strings.TrimSpace(prop.Description)
	if desc == "" {
		return ""
	}

	if tracker == nil {
		tracker = form.NewOverflowTracker()
	}
	tracker.Measure(prop.Key, desc, r.lineWidth)
	expanded := tracker.Expanded(prop.Key)

	var b strings.Builder
	b.WriteString(`    <div class="text-sm text-gray-500`)
	if !expanded {
		b.WriteString(` line-clamp-3`)
	}
	b.WriteString(`" data-description="`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`">`)
	b.WriteString(r.policy.Sanitize(desc))
	b.WriteString(`</div>` + "\n")

	if tracker.ShowsAffordance(prop.Key) {
		label := "Show more"
		if expanded {
			label = "Show less"
		}
		b.WriteString(`    <button type="submit" name="` + opField + `" value="`)
		b.WriteString(html.EscapeString("toggle:" + prop.Key))
		b.WriteString(`" formnovalidate class="text-xs text-blue-600 text-left">`)
		b.WriteString(label)
		b.WriteString(`</button>` + "\n")
	}
	return b.String()
}

func fieldLabel(prop schema.Property) string {
	if strings.TrimSpace(prop.Title) != "" {
		return prop.Title
	}
	return prop.Key
}

func listItemName(key string, index int) string {
	return fmt.Sprintf("%s.%d", key, index)
}

func recordFieldName(key string, index int, subKey string) string {
	return fmt.Sprintf("%s.%d.%s", key, index, subKey)
}
