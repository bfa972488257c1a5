package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const crawlerSchema = `{
	"title": "Crawler input",
	"description": "Input for the example crawler.",
	"properties": {
		"startUrl": {
			"type": "string",
			"editor": "textfield",
			"title": "Start URL",
			"description": "Where the crawl begins.",
			"prefill": "https://example.com"
		},
		"mode": {
			"type": "string",
			"editor": "select",
			"enum": ["fast", "deep"],
			"enumTitles": ["Fast", "Deep"]
		},
		"maxPages": {
			"type": "integer",
			"minimum": 1,
			"maximum": 100,
			"default": 10
		},
		"headers": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"value": {"type": "string"}
				}
			}
		}
	},
	"required": ["startUrl"]
}`

func TestParse_PreservesPropertyOrder(t *testing.T) {
	parsed, err := Parse([]byte(crawlerSchema))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var keys []string
	for _, prop := range parsed.Properties {
		keys = append(keys, prop.Key)
	}
	want := []string{"startUrl", "mode", "maxPages", "headers"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_PropertyFields(t *testing.T) {
	parsed, err := Parse([]byte(crawlerSchema))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	start, ok := parsed.Property("startUrl")
	if !ok {
		t.Fatalf("startUrl missing")
	}
	if start.Editor != EditorTextfield || start.Prefill != "https://example.com" {
		t.Fatalf("unexpected startUrl property: %+v", start)
	}
	if !parsed.IsRequired("startUrl") || parsed.IsRequired("mode") {
		t.Fatalf("required set wrong: %v", parsed.RequiredKeys())
	}

	mode, _ := parsed.Property("mode")
	if diff := cmp.Diff([]any{"fast", "deep"}, mode.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Fast", "Deep"}, mode.EnumTitles); diff != "" {
		t.Fatalf("enum titles mismatch (-want +got):\n%s", diff)
	}

	pages, _ := parsed.Property("maxPages")
	if pages.Minimum == nil || *pages.Minimum != 1 || pages.Maximum == nil || *pages.Maximum != 100 {
		t.Fatalf("bounds not parsed: %+v", pages)
	}
	if pages.Default != float64(10) {
		t.Fatalf("default not parsed: %v", pages.Default)
	}

	headers, _ := parsed.Property("headers")
	if !headers.Items.IsRecord() {
		t.Fatalf("headers items should be a record schema")
	}
	var nested []string
	for _, prop := range headers.Items.Properties {
		nested = append(nested, prop.Key)
	}
	if diff := cmp.Diff([]string{"name", "value"}, nested); diff != "" {
		t.Fatalf("nested order mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_StringEncodedDocument(t *testing.T) {
	quoted := `"{\"properties\": {\"a\": {\"type\": \"string\"}}}"`
	parsed, err := Parse([]byte(quoted))
	if err != nil {
		t.Fatalf("parse quoted: %v", err)
	}
	if len(parsed.Properties) != 1 || parsed.Properties[0].Key != "a" {
		t.Fatalf("unexpected properties: %+v", parsed.Properties)
	}
}

func TestParse_MissingProperties(t *testing.T) {
	parsed, err := Parse([]byte(`{"title": "no fields"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.HasProperties() {
		t.Fatalf("expected no properties")
	}

	var nilSchema *InputSchema
	if nilSchema.HasProperties() || nilSchema.IsRequired("x") {
		t.Fatalf("nil schema should degrade gracefully")
	}
}

func TestParse_Errors(t *testing.T) {
	for _, raw := range []string{"", "   ", "{", `{"properties": 42}`} {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
