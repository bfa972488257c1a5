package htmlform

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/performate/performate/pkg/form"
	"github.com/performate/performate/pkg/schema"
)

func mustSchema(t *testing.T, doc string) *schema.InputSchema {
	t.Helper()
	parsed, err := schema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return parsed
}

func renderState(t *testing.T, s *schema.InputSchema) string {
	t.Helper()
	r := New()
	out, err := r.RenderForm(FormState{
		Schema:  s,
		Values:  form.DeriveValues(s),
		Tracker: form.NewOverflowTracker(),
		Action:  "/actor/demo/run",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestRenderForm_RequiredTextField(t *testing.T) {
	s := mustSchema(t, `{
		"properties": {"url": {"type": "string", "editor": "textfield", "title": "Page URL"}},
		"required": ["url"]
	}`)
	out := renderState(t, s)

	if !strings.Contains(out, `name="url"`) {
		t.Fatalf("missing url input:\n%s", out)
	}
	if !strings.Contains(out, "Page URL *") {
		t.Fatalf("missing required marker:\n%s", out)
	}
	if !strings.Contains(out, ` required`) {
		t.Fatalf("required constraint not emitted:\n%s", out)
	}
}

func TestRenderForm_SelectWithPlaceholder(t *testing.T) {
	s := mustSchema(t, `{
		"properties": {"mode": {
			"type": "string", "editor": "select",
			"enum": ["a", "b"], "enumTitles": ["A", "B"]
		}}
	}`)
	out := renderState(t, s)

	blank := strings.Index(out, `<option value=""></option>`)
	optA := strings.Index(out, `<option value="a">A</option>`)
	optB := strings.Index(out, `<option value="b">B</option>`)
	if blank < 0 || optA < 0 || optB < 0 {
		t.Fatalf("options missing:\n%s", out)
	}
	if !(blank < optA && optA < optB) {
		t.Fatalf("placeholder must come first, then enum order:\n%s", out)
	}
}

func TestRenderForm_UnmatchedFieldIsHidden(t *testing.T) {
	s := mustSchema(t, `{
		"properties": {
			"visible": {"type": "string"},
			"hidden": {"type": "string", "editor": "wysiwyg"}
		},
		"required": ["hidden"]
	}`)
	out := renderState(t, s)

	if strings.Contains(out, `name="hidden"`) {
		t.Fatalf("unmatched editor should render nothing:\n%s", out)
	}
	if !strings.Contains(out, `name="visible"`) {
		t.Fatalf("supported field missing:\n%s", out)
	}
}

func TestRenderForm_CheckboxLabelFallsBackToTitle(t *testing.T) {
	s := mustSchema(t, `{
		"properties": {
			"described": {"type": "boolean", "title": "Ignored", "description": "Use the described thing"},
			"bare": {"type": "boolean", "title": "Bare flag"}
		}
	}`)
	out := renderState(t, s)

	if !strings.Contains(out, "Use the described thing") {
		t.Fatalf("checkbox should use description as label:\n%s", out)
	}
	if !strings.Contains(out, "Bare flag") {
		t.Fatalf("checkbox should fall back to title:\n%s", out)
	}
}

func TestRenderForm_NoSchemaNotice(t *testing.T) {
	out := renderState(t, mustSchema(t, `{"title": "nothing"}`))
	if !strings.Contains(out, "no input schema") {
		t.Fatalf("expected the empty-schema notice:\n%s", out)
	}
}

func TestRenderForm_SanitizesDescriptions(t *testing.T) {
	s := mustSchema(t, `{
		"properties": {"url": {
			"type": "string",
			"description": "Use <b>bold</b><script>alert(1)</script>"
		}}
	}`)
	out := renderState(t, s)

	if !strings.Contains(out, "<b>bold</b>") {
		t.Fatalf("benign markup should survive:\n%s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("script must be stripped:\n%s", out)
	}
}

func TestRenderForm_PendingDisablesSubmit(t *testing.T) {
	s := mustSchema(t, `{"properties": {"url": {"type": "string"}}}`)
	r := New()
	out, err := r.RenderForm(FormState{
		Schema:  s,
		Values:  form.DeriveValues(s),
		Tracker: form.NewOverflowTracker(),
		Pending: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `value="run" disabled`) {
		t.Fatalf("pending submit should be disabled:\n%s", out)
	}
}

const listSchema = `{
	"properties": {
		"tags": {"type": "array", "editor": "stringList"},
		"headers": {"type": "array", "items": {"type": "object", "properties": {
			"name": {"type": "string"},
			"secure": {"type": "boolean"}
		}}},
		"maxPages": {"type": "integer"},
		"hiddenOne": {"type": "string", "editor": "wysiwyg", "default": "kept"}
	}
}`

func TestDecodeValues_RoundTrip(t *testing.T) {
	s := mustSchema(t, listSchema)
	base := form.DeriveValues(s)
	base = form.AppendListItem(base, "tags")
	base = form.AppendListItem(base, "headers")

	posted := url.Values{}
	posted.Set("tags.0", "news")
	posted.Set("headers.0.name", "accept")
	posted.Set("headers.0.secure", "true")
	posted.Set("maxPages", "12")

	got := DecodeValues(s, posted, base)
	want := form.ValueMap{
		"tags":      form.StringList{"news"},
		"headers":   form.RecordList{{"name": form.String("accept"), "secure": form.Boolean(true)}},
		"maxPages":  form.Number(12),
		"hiddenOne": form.String("kept"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded values mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeValues_EmptyNumberStaysEmpty(t *testing.T) {
	s := mustSchema(t, `{"properties": {"n": {"type": "integer"}}}`)
	got := DecodeValues(s, url.Values{"n": {""}}, form.DeriveValues(s))
	if got["n"] != form.String("") {
		t.Fatalf("expected empty string for unset number, got %v", got["n"])
	}
}

func TestParseOpAndApplyOp(t *testing.T) {
	cases := []struct {
		raw  string
		want Op
	}{
		{"run", Op{Kind: "run"}},
		{"", Op{Kind: "run"}},
		{"add:tags", Op{Kind: "add", Key: "tags"}},
		{"remove:tags:2", Op{Kind: "remove", Key: "tags", Index: 2}},
		{"toggle:url", Op{Kind: "toggle", Key: "url"}},
		{"remove:tags:x", Op{Kind: "run"}},
	}
	for _, tc := range cases {
		if got := ParseOp(tc.raw); got != tc.want {
			t.Fatalf("ParseOp(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}

	s := mustSchema(t, listSchema)
	values := form.DeriveValues(s)
	tracker := form.NewOverflowTracker()

	values = ApplyOp(values, tracker, Op{Kind: "add", Key: "tags"})
	if len(values["tags"].(form.StringList)) != 1 {
		t.Fatalf("add op should grow the list")
	}
	values = ApplyOp(values, tracker, Op{Kind: "remove", Key: "tags", Index: 0})
	if len(values["tags"].(form.StringList)) != 0 {
		t.Fatalf("remove op should shrink the list")
	}
	ApplyOp(values, tracker, Op{Kind: "toggle", Key: "url"})
	if !tracker.Expanded("url") {
		t.Fatalf("toggle op should expand the tracker state")
	}
}

func TestValidateRequired(t *testing.T) {
	s := mustSchema(t, `{
		"properties": {
			"url": {"type": "string", "title": "Start URL"},
			"agree": {"type": "boolean"},
			"tags": {"type": "array"}
		},
		"required": ["url", "agree", "tags"]
	}`)
	values := form.DeriveValues(s)

	problems := ValidateRequired(s, values)
	if len(problems) != 1 || !strings.Contains(problems[0], "Start URL") {
		t.Fatalf("only the scalar text field should be enforced, got %v", problems)
	}

	values = form.SetScalar(values, "url", form.String("https://example.com"))
	if problems := ValidateRequired(s, values); len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
}
