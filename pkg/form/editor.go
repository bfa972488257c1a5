package form

import "github.com/performate/performate/pkg/schema"

// Editor identifies the single control variant rendered for a property.
// Exactly one variant renders per field; EditorNone means the field stays
// hidden.
type Editor string

const (
	EditorNone       Editor = ""
	EditorText       Editor = "text"
	EditorSelect     Editor = "select"
	EditorDate       Editor = "date"
	EditorNumber     Editor = "number"
	EditorCheckbox   Editor = "checkbox"
	EditorStringList Editor = "string-list"
	EditorRecordList Editor = "record-list"
)

type editorRule struct {
	editor Editor
	match  func(p schema.Property) bool
}

// editorRules is evaluated top to bottom; the first match wins. The
// record-list rule is checked before the flat-list rule so an array with
// object items never degrades to a string editor. Combinations matching no
// rule are hidden, regardless of required-ness.
var editorRules = []editorRule{
	{EditorRecordList, func(p schema.Property) bool {
		return p.Type == schema.TypeArray && p.Items.IsRecord()
	}},
	{EditorStringList, func(p schema.Property) bool {
		if p.Type != schema.TypeArray {
			return false
		}
		if p.Items != nil && p.Items.Type != schema.TypeString {
			return false
		}
		return p.Editor == "" || p.Editor == schema.EditorStringList
	}},
	{EditorSelect, func(p schema.Property) bool {
		return p.Type == schema.TypeString && p.Editor == schema.EditorSelect
	}},
	{EditorDate, func(p schema.Property) bool {
		return p.Type == schema.TypeString && p.Editor == schema.EditorDatepicker
	}},
	{EditorText, func(p schema.Property) bool {
		return p.Type == schema.TypeString && (p.Editor == "" || p.Editor == schema.EditorTextfield)
	}},
	{EditorNumber, func(p schema.Property) bool {
		return p.Type == schema.TypeInteger
	}},
	{EditorCheckbox, func(p schema.Property) bool {
		return p.Type == schema.TypeBoolean
	}},
}

// ResolveEditor picks the control variant for a property. It is a pure
// function of the property's type, editor hint and item type: the same
// triple always resolves to the same variant.
func ResolveEditor(p schema.Property) Editor {
	for _, rule := range editorRules {
		if rule.match(p) {
			return rule.editor
		}
	}
	return EditorNone
}

// EnforcesRequired reports whether the editor blocks submission when its
// field is required but empty. Matching the observed product behavior,
// presence is enforced for scalar text, number and select controls only,
// never for checkbox or list editors.
func (e Editor) EnforcesRequired() bool {
	switch e {
	case EditorText, EditorDate, EditorNumber, EditorSelect:
		return true
	default:
		return false
	}
}
