// Package form holds the input-value model for a rendered actor form: the
// closed set of value variants, the default-value derivation rules, and the
// pure mutation helpers that the rendering layer's change detection relies
// on.
package form

import (
	"github.com/performate/performate/pkg/schema"
)

// Value is the closed set of shapes an input entry can take. Exactly the
// types in this package implement it: String, Number, Boolean, StringList
// and RecordList.
type Value interface {
	isValue()
}

// String holds scalar text. It also represents the "unset" state of numeric
// fields, which start out empty rather than zero.
type String string

// Number holds a scalar numeric value once the user has entered one.
type Number float64

// Boolean holds a checkbox state.
type Boolean bool

// StringList is the value of a flat string-array property.
type StringList []string

// Record is one entry of a record-list value, keyed by the nested schema's
// property keys.
type Record map[string]Value

// RecordList is the value of an array-of-objects property.
type RecordList []Record

func (String) isValue()     {}
func (Number) isValue()     {}
func (Boolean) isValue()    {}
func (StringList) isValue() {}
func (RecordList) isValue() {}

// ValueMap maps property keys to their current values. After derivation its
// key set always equals the schema's property key set; mutations go through
// the Set*/Append*/Remove* helpers, which replace the container instead of
// writing through it.
type ValueMap map[string]Value

// DeriveValues produces the initial ValueMap for a schema, one entry per
// property:
//
//  1. boolean: default, else prefill, else false
//  2. default, when defined
//  3. prefill, when defined
//  4. array: empty sequence
//  5. anything else: empty string
//
// A nil schema or one without properties yields an empty map.
func DeriveValues(s *schema.InputSchema) ValueMap {
	values := ValueMap{}
	if !s.HasProperties() {
		return values
	}
	for _, prop := range s.Properties {
		values[prop.Key] = deriveValue(prop)
	}
	return values
}

func deriveValue(prop schema.Property) Value {
	if prop.Type == schema.TypeBoolean {
		if b, ok := coerceBool(prop.Default); ok {
			return Boolean(b)
		}
		if b, ok := coerceBool(prop.Prefill); ok {
			return Boolean(b)
		}
		return Boolean(false)
	}
	if prop.Default != nil {
		return coerceValue(prop, prop.Default)
	}
	if prop.Prefill != nil {
		return coerceValue(prop, prop.Prefill)
	}
	if prop.Type == schema.TypeArray {
		return emptyList(prop)
	}
	return String("")
}

func emptyList(prop schema.Property) Value {
	if prop.Items.IsRecord() {
		return RecordList{}
	}
	return StringList{}
}

// coerceValue maps a raw default/prefill payload onto the variant matching
// the property's declared type. Payloads that do not fit fall back to the
// type's empty value so derivation never fails.
func coerceValue(prop schema.Property, raw any) Value {
	switch prop.Type {
	case schema.TypeInteger:
		if n, ok := coerceNumber(raw); ok {
			return Number(n)
		}
		return String("")
	case schema.TypeArray:
		return coerceList(prop, raw)
	default:
		if s, ok := raw.(string); ok {
			return String(s)
		}
		return String("")
	}
}

func coerceList(prop schema.Property, raw any) Value {
	seq, ok := raw.([]any)
	if !ok {
		return emptyList(prop)
	}
	if prop.Items.IsRecord() {
		list := make(RecordList, 0, len(seq))
		for _, item := range seq {
			fields, ok := item.(map[string]any)
			if !ok {
				continue
			}
			record := Record{}
			for _, nested := range prop.Items.Properties {
				if raw, present := fields[nested.Key]; present {
					record[nested.Key] = coerceValue(nested, raw)
				} else {
					record[nested.Key] = deriveValue(nested)
				}
			}
			list = append(list, record)
		}
		return list
	}
	list := make(StringList, 0, len(seq))
	for _, item := range seq {
		if s, ok := item.(string); ok {
			list = append(list, s)
		}
	}
	return list
}

func coerceBool(raw any) (bool, bool) {
	b, ok := raw.(bool)
	return b, ok
}

func coerceNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
