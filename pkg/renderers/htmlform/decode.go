package htmlform

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/performate/performate/pkg/form"
	"github.com/performate/performate/pkg/schema"
)

// DecodeValues rebuilds a ValueMap from posted form data. Base supplies the
// previous session values: hidden properties and list lengths come from it,
// so the decoded map's key set still equals the schema's property key set.
func DecodeValues(s *schema.InputSchema, posted url.Values, base form.ValueMap) form.ValueMap {
	values := form.ValueMap{}
	if !s.HasProperties() {
		return values
	}

	for _, prop := range s.Properties {
		editor := form.ResolveEditor(prop)
		switch editor {
		case form.EditorNone:
			values[prop.Key] = base[prop.Key]
		case form.EditorCheckbox:
			values[prop.Key] = form.Boolean(posted.Get(prop.Key) == "true")
		case form.EditorNumber:
			values[prop.Key] = decodeNumber(posted.Get(prop.Key))
		case form.EditorStringList:
			values[prop.Key] = decodeStringList(prop.Key, posted, base[prop.Key])
		case form.EditorRecordList:
			values[prop.Key] = decodeRecordList(prop, posted, base[prop.Key])
		default:
			values[prop.Key] = form.String(posted.Get(prop.Key))
		}
	}
	return values
}

func decodeNumber(raw string) form.Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return form.String("")
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return form.String("")
	}
	return form.Number(n)
}

// decodeStringList reads key.N entries. The previous list's length bounds
// the scan: structural changes go through ApplyOp, not through posting.
func decodeStringList(key string, posted url.Values, previous form.Value) form.Value {
	prior, _ := previous.(form.StringList)
	list := make(form.StringList, len(prior))
	copy(list, prior)
	for i := range list {
		if posted.Has(listItemName(key, i)) {
			list[i] = posted.Get(listItemName(key, i))
		}
	}
	return list
}

func decodeRecordList(prop schema.Property, posted url.Values, previous form.Value) form.Value {
	prior, _ := previous.(form.RecordList)
	list := make(form.RecordList, 0, len(prior))
	for i, priorRecord := range prior {
		record := form.Record{}
		for _, nested := range prop.Items.Properties {
			name := recordFieldName(prop.Key, i, nested.Key)
			switch form.ResolveEditor(nested) {
			case form.EditorCheckbox:
				record[nested.Key] = form.Boolean(posted.Get(name) == "true")
			case form.EditorNumber:
				record[nested.Key] = decodeNumber(posted.Get(name))
			default:
				if posted.Has(name) {
					record[nested.Key] = form.String(posted.Get(name))
				} else {
					record[nested.Key] = priorRecord[nested.Key]
				}
			}
		}
		list = append(list, record)
	}
	return list
}

// Op is a structural form action parsed from the __op field.
type Op struct {
	Kind  string // "run", "add", "remove", "toggle"
	Key   string
	Index int
}

// ParseOp interprets the posted __op value. An empty or unknown op defaults
// to a plain run submission.
func ParseOp(raw string) Op {
	parts := strings.SplitN(raw, ":", 3)
	switch parts[0] {
	case "add", "toggle":
		if len(parts) == 2 && parts[1] != "" {
			return Op{Kind: parts[0], Key: parts[1]}
		}
	case "remove":
		if len(parts) == 3 {
			if idx, err := strconv.Atoi(parts[2]); err == nil {
				return Op{Kind: "remove", Key: parts[1], Index: idx}
			}
		}
	}
	return Op{Kind: "run"}
}

// OpValue returns the posted op for a request form.
func OpValue(posted url.Values) Op {
	return ParseOp(posted.Get(opField))
}

// ApplyOp applies a structural action to the value map through the pure
// mutators. Toggle ops mutate the tracker instead.
func ApplyOp(values form.ValueMap, tracker *form.OverflowTracker, op Op) form.ValueMap {
	switch op.Kind {
	case "add":
		return form.AppendListItem(values, op.Key)
	case "remove":
		return form.RemoveListItem(values, op.Key, op.Index)
	case "toggle":
		if tracker != nil {
			tracker.Toggle(op.Key)
		}
	}
	return values
}

// ValidateRequired re-checks the required constraint server-side for the
// editors that enforce it. It returns one message per violated field.
func ValidateRequired(s *schema.InputSchema, values form.ValueMap) []string {
	if !s.HasProperties() {
		return nil
	}
	var problems []string
	for _, prop := range s.Properties {
		if !s.IsRequired(prop.Key) {
			continue
		}
		editor := form.ResolveEditor(prop)
		if !editor.EnforcesRequired() {
			continue
		}
		if str, ok := values[prop.Key].(form.String); ok && strings.TrimSpace(string(str)) == "" {
			problems = append(problems, fmt.Sprintf("%s is required", fieldLabel(prop)))
		}
	}
	return problems
}
