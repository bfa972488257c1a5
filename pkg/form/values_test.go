package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/performate/performate/pkg/schema"
)

func mustParse(t *testing.T, doc string) *schema.InputSchema {
	t.Helper()
	parsed, err := schema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return parsed
}

func TestDeriveValues_KeySetMatchesSchema(t *testing.T) {
	parsed := mustParse(t, `{
		"properties": {
			"url": {"type": "string"},
			"maxPages": {"type": "integer"},
			"verbose": {"type": "boolean"},
			"tags": {"type": "array"},
			"records": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}}}}
		}
	}`)

	values := DeriveValues(parsed)
	if len(values) != len(parsed.Properties) {
		t.Fatalf("expected %d entries, got %d", len(parsed.Properties), len(values))
	}
	for _, prop := range parsed.Properties {
		if _, ok := values[prop.Key]; !ok {
			t.Fatalf("missing derived entry for %q", prop.Key)
		}
	}
}

func TestDeriveValues_Priorities(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want Value
	}{
		{
			name: "boolean default wins over prefill",
			doc:  `{"properties": {"x": {"type": "boolean", "default": true, "prefill": false}}}`,
			want: Boolean(true),
		},
		{
			name: "boolean prefill when no default",
			doc:  `{"properties": {"x": {"type": "boolean", "prefill": true}}}`,
			want: Boolean(true),
		},
		{
			name: "boolean bare is false",
			doc:  `{"properties": {"x": {"type": "boolean"}}}`,
			want: Boolean(false),
		},
		{
			name: "string default wins over prefill",
			doc:  `{"properties": {"x": {"type": "string", "default": "a", "prefill": "b"}}}`,
			want: String("a"),
		},
		{
			name: "string prefill",
			doc:  `{"properties": {"x": {"type": "string", "prefill": "b"}}}`,
			want: String("b"),
		},
		{
			name: "integer default",
			doc:  `{"properties": {"x": {"type": "integer", "default": 5}}}`,
			want: Number(5),
		},
		{
			name: "integer bare is empty string",
			doc:  `{"properties": {"x": {"type": "integer"}}}`,
			want: String(""),
		},
		{
			name: "string array bare is empty list",
			doc:  `{"properties": {"x": {"type": "array"}}}`,
			want: StringList{},
		},
		{
			name: "record array bare is empty record list",
			doc:  `{"properties": {"x": {"type": "array", "items": {"type": "object", "properties": {"n": {"type": "string"}}}}}}`,
			want: RecordList{},
		},
		{
			name: "string array prefill",
			doc:  `{"properties": {"x": {"type": "array", "prefill": ["a", "b"]}}}`,
			want: StringList{"a", "b"},
		},
		{
			name: "bare string is empty",
			doc:  `{"properties": {"x": {"type": "string"}}}`,
			want: String(""),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := DeriveValues(mustParse(t, tc.doc))
			if diff := cmp.Diff(tc.want, values["x"]); diff != "" {
				t.Fatalf("derived value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeriveValues_RecordDefaultsFillNestedKeys(t *testing.T) {
	parsed := mustParse(t, `{
		"properties": {
			"headers": {
				"type": "array",
				"items": {"type": "object", "properties": {
					"name": {"type": "string"},
					"secure": {"type": "boolean"}
				}},
				"default": [{"name": "accept"}]
			}
		}
	}`)

	want := RecordList{{"name": String("accept"), "secure": Boolean(false)}}
	if diff := cmp.Diff(ValueMap{"headers": want}, DeriveValues(parsed)); diff != "" {
		t.Fatalf("record defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveValues_NoProperties(t *testing.T) {
	values := DeriveValues(nil)
	if len(values) != 0 {
		t.Fatalf("expected empty map for nil schema, got %v", values)
	}

	values = DeriveValues(mustParse(t, `{"title": "empty"}`))
	if len(values) != 0 {
		t.Fatalf("expected empty map for schema without properties, got %v", values)
	}
}
