// Package schema models the JSON-Schema-like documents that describe an
// actor's configurable input. Schemas arrive from the remote actor API and
// are treated as immutable for the lifetime of one actor session.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Property types understood by the form layer. Anything else resolves to no
// editor and stays unrendered.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Editor hints narrowing how string and array properties are rendered.
const (
	EditorTextfield  = "textfield"
	EditorSelect     = "select"
	EditorDatepicker = "datepicker"
	EditorStringList = "stringList"
)

// Property is one entry in a schema's property mapping. Key uniqueness and
// ordering come from the source document: iteration over
// InputSchema.Properties follows insertion order.
type Property struct {
	Key              string
	Type             string
	Editor           string
	Title            string
	Description      string
	Default          any
	Prefill          any
	Enum             []any
	EnumTitles       []string
	Pattern          string
	Minimum          *float64
	Maximum          *float64
	PlaceholderValue string
	Items            *ItemSchema
}

// ItemSchema describes the element shape of an array property: either a flat
// string list or a list of records with its own ordered property set.
type ItemSchema struct {
	Type       string
	Properties []Property
}

// IsRecord reports whether the array elements are keyed records.
func (s *ItemSchema) IsRecord() bool {
	return s != nil && s.Type == TypeObject
}

// InputSchema is the parsed input description for one actor. Properties keep
// the document's insertion order, which defines rendering order.
type InputSchema struct {
	Title       string
	Description string
	Properties  []Property

	required map[string]struct{}
}

// HasProperties reports whether the schema declares any renderable entries.
// A nil schema or one without properties degrades to an empty form.
func (s *InputSchema) HasProperties() bool {
	return s != nil && len(s.Properties) > 0
}

// IsRequired reports whether key is in the schema's required set.
func (s *InputSchema) IsRequired(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.required[key]
	return ok
}

// RequiredKeys returns the required set in property order.
func (s *InputSchema) RequiredKeys() []string {
	if s == nil || len(s.required) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.required))
	for _, prop := range s.Properties {
		if _, ok := s.required[prop.Key]; ok {
			keys = append(keys, prop.Key)
		}
	}
	return keys
}

// Property looks up a property by key.
func (s *InputSchema) Property(key string) (Property, bool) {
	if s == nil {
		return Property{}, false
	}
	for _, prop := range s.Properties {
		if prop.Key == key {
			return prop, true
		}
	}
	return Property{}, false
}

// Parse decodes an input schema document. The remote API sometimes delivers
// the schema double-encoded as a JSON string; both forms are accepted.
func Parse(raw []byte) (*InputSchema, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("schema: empty document")
	}
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("schema: unquote document: %w", err)
		}
		trimmed = []byte(inner)
	}

	var doc InputSchema
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse document: %w", err)
	}
	return &doc, nil
}

// UnmarshalJSON decodes the schema while preserving the insertion order of
// the properties object, which encoding/json's map decoding would lose.
func (s *InputSchema) UnmarshalJSON(data []byte) error {
	var head struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Properties  json.RawMessage `json:"properties"`
		Required    []string        `json:"required"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	s.Title = head.Title
	s.Description = head.Description
	s.required = make(map[string]struct{}, len(head.Required))
	for _, key := range head.Required {
		s.required[key] = struct{}{}
	}

	if len(head.Properties) == 0 || bytes.Equal(bytes.TrimSpace(head.Properties), []byte("null")) {
		s.Properties = nil
		return nil
	}

	props, err := parseOrderedProperties(head.Properties)
	if err != nil {
		return err
	}
	s.Properties = props
	return nil
}

// parseOrderedProperties walks the raw properties object token by token so
// the original key order survives decoding.
func parseOrderedProperties(raw json.RawMessage) ([]Property, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("schema: read properties: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("schema: properties is not an object")
	}

	var props []Property
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("schema: read property key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("schema: property key is not a string")
		}

		var body json.RawMessage
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("schema: decode property %q: %w", key, err)
		}

		prop, err := parseProperty(key, body)
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	return props, nil
}

func parseProperty(key string, body json.RawMessage) (Property, error) {
	var raw struct {
		Type             string          `json:"type"`
		Editor           string          `json:"editor"`
		Title            string          `json:"title"`
		Description      string          `json:"description"`
		Default          any             `json:"default"`
		Prefill          any             `json:"prefill"`
		Enum             []any           `json:"enum"`
		EnumTitles       []string        `json:"enumTitles"`
		Pattern          string          `json:"pattern"`
		Minimum          *float64        `json:"minimum"`
		Maximum          *float64        `json:"maximum"`
		PlaceholderValue string          `json:"placeholderValue"`
		Items            json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Property{}, fmt.Errorf("schema: parse property %q: %w", key, err)
	}

	prop := Property{
		Key:              key,
		Type:             raw.Type,
		Editor:           raw.Editor,
		Title:            raw.Title,
		Description:      raw.Description,
		Default:          raw.Default,
		Prefill:          raw.Prefill,
		Enum:             raw.Enum,
		EnumTitles:       raw.EnumTitles,
		Pattern:          raw.Pattern,
		Minimum:          raw.Minimum,
		Maximum:          raw.Maximum,
		PlaceholderValue: raw.PlaceholderValue,
	}

	if len(raw.Items) > 0 && !bytes.Equal(bytes.TrimSpace(raw.Items), []byte("null")) {
		items, err := parseItems(key, raw.Items)
		if err != nil {
			return Property{}, err
		}
		prop.Items = items
	}
	return prop, nil
}

func parseItems(key string, raw json.RawMessage) (*ItemSchema, error) {
	var head struct {
		Type       string          `json:"type"`
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		// Malformed nested items degrade to "no renderable editor" rather
		// than failing the whole schema.
		return nil, nil
	}

	items := &ItemSchema{Type: head.Type}
	if head.Type == TypeObject && len(head.Properties) > 0 {
		props, err := parseOrderedProperties(head.Properties)
		if err != nil {
			return nil, fmt.Errorf("schema: items of %q: %w", key, err)
		}
		items.Properties = props
	}
	return items, nil
}
