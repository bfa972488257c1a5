package form

import (
	"testing"

	"github.com/performate/performate/pkg/schema"
)

func TestResolveEditor(t *testing.T) {
	cases := []struct {
		name string
		prop schema.Property
		want Editor
	}{
		{
			name: "bare string",
			prop: schema.Property{Type: schema.TypeString},
			want: EditorText,
		},
		{
			name: "string textfield",
			prop: schema.Property{Type: schema.TypeString, Editor: schema.EditorTextfield},
			want: EditorText,
		},
		{
			name: "string select",
			prop: schema.Property{Type: schema.TypeString, Editor: schema.EditorSelect, Enum: []any{"a", "b"}},
			want: EditorSelect,
		},
		{
			name: "string datepicker",
			prop: schema.Property{Type: schema.TypeString, Editor: schema.EditorDatepicker},
			want: EditorDate,
		},
		{
			name: "integer ignores editor hint",
			prop: schema.Property{Type: schema.TypeInteger, Editor: "whatever"},
			want: EditorNumber,
		},
		{
			name: "boolean ignores editor hint",
			prop: schema.Property{Type: schema.TypeBoolean, Editor: "whatever"},
			want: EditorCheckbox,
		},
		{
			name: "array without items",
			prop: schema.Property{Type: schema.TypeArray},
			want: EditorStringList,
		},
		{
			name: "array of strings with stringList hint",
			prop: schema.Property{
				Type:   schema.TypeArray,
				Editor: schema.EditorStringList,
				Items:  &schema.ItemSchema{Type: schema.TypeString},
			},
			want: EditorStringList,
		},
		{
			name: "array of objects wins over flat list",
			prop: schema.Property{
				Type:   schema.TypeArray,
				Editor: schema.EditorStringList,
				Items: &schema.ItemSchema{
					Type:       schema.TypeObject,
					Properties: []schema.Property{{Key: "n", Type: schema.TypeString}},
				},
			},
			want: EditorRecordList,
		},
		{
			name: "unknown type hides the field",
			prop: schema.Property{Type: "object"},
			want: EditorNone,
		},
		{
			name: "unknown string editor hides the field",
			prop: schema.Property{Type: schema.TypeString, Editor: "wysiwyg"},
			want: EditorNone,
		},
		{
			name: "array with unknown editor hides the field",
			prop: schema.Property{Type: schema.TypeArray, Editor: "keyValue"},
			want: EditorNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveEditor(tc.prop); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			// Resolution is pure: the same property resolves identically
			// on repeat calls.
			if got := ResolveEditor(tc.prop); got != tc.want {
				t.Fatalf("resolution not stable for %q", tc.name)
			}
		})
	}
}

func TestEnforcesRequired(t *testing.T) {
	enforcing := []Editor{EditorText, EditorDate, EditorNumber, EditorSelect}
	for _, editor := range enforcing {
		if !editor.EnforcesRequired() {
			t.Fatalf("%q should enforce required", editor)
		}
	}
	relaxed := []Editor{EditorCheckbox, EditorStringList, EditorRecordList, EditorNone}
	for _, editor := range relaxed {
		if editor.EnforcesRequired() {
			t.Fatalf("%q should not enforce required", editor)
		}
	}
}
