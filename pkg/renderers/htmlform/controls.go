package htmlform

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/performate/performate/pkg/form"
	"github.com/performate/performate/pkg/schema"
)

const inputClass = "border border-gray-300 rounded-lg px-3 py-2 text-gray-900 bg-gray-50 text-sm"

func (r *Renderer) renderControl(editor form.Editor, prop schema.Property, value form.Value, required bool) (string, error) {
	switch editor {
	case form.EditorText, form.EditorDate:
		return renderTextInput(prop, value, required), nil
	case form.EditorSelect:
		return renderSelect(prop, value, required), nil
	case form.EditorNumber:
		return renderNumber(prop, value, required), nil
	case form.EditorCheckbox:
		return r.renderCheckbox(prop, value), nil
	case form.EditorStringList:
		return renderStringList(prop, value), nil
	case form.EditorRecordList:
		return r.renderRecordList(prop, value)
	default:
		return "", fmt.Errorf("htmlform: no control for editor %q", editor)
	}
}

func renderTextInput(prop schema.Property, value form.Value, required bool) string {
	var b strings.Builder
	b.WriteString(`<input type="text" id="pf-`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`" value="`)
	b.WriteString(html.EscapeString(scalarText(value)))
	b.WriteString(`"`)
	if prop.PlaceholderValue != "" {
		b.WriteString(` placeholder="`)
		b.WriteString(html.EscapeString(prop.PlaceholderValue))
		b.WriteString(`"`)
	}
	if prop.Pattern != "" {
		b.WriteString(` pattern="`)
		b.WriteString(html.EscapeString(prop.Pattern))
		b.WriteString(`"`)
	}
	if required {
		b.WriteString(` required`)
	}
	b.WriteString(` class="` + inputClass + `">`)
	return b.String()
}

// renderSelect emits the dropdown with a blank placeholder option first,
// then one option per enum entry labelled by position from enumTitles.
func renderSelect(prop schema.Property, value form.Value, required bool) string {
	current := scalarText(value)

	var b strings.Builder
	b.WriteString(`<select id="pf-`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`"`)
	if required {
		b.WriteString(` required`)
	}
	b.WriteString(` class="` + inputClass + `">` + "\n")
	b.WriteString(`<option value=""></option>` + "\n")

	for i, raw := range prop.Enum {
		val := enumText(raw)
		label := val
		if i < len(prop.EnumTitles) && prop.EnumTitles[i] != "" {
			label = prop.EnumTitles[i]
		}
		b.WriteString(`<option value="`)
		b.WriteString(html.EscapeString(val))
		b.WriteString(`"`)
		if val != "" && val == current {
			b.WriteString(` selected`)
		}
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(label))
		b.WriteString(`</option>` + "\n")
	}
	b.WriteString(`</select>`)
	return b.String()
}

func renderNumber(prop schema.Property, value form.Value, required bool) string {
	var b strings.Builder
	b.WriteString(`<input type="number" id="pf-`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`" value="`)
	b.WriteString(html.EscapeString(scalarText(value)))
	b.WriteString(`"`)
	if prop.Minimum != nil {
		b.WriteString(` min="`)
		b.WriteString(formatNumber(*prop.Minimum))
		b.WriteString(`"`)
	}
	if prop.Maximum != nil {
		b.WriteString(` max="`)
		b.WriteString(formatNumber(*prop.Maximum))
		b.WriteString(`"`)
	}
	if required {
		b.WriteString(` required`)
	}
	b.WriteString(` class="` + inputClass + `">`)
	return b.String()
}

// renderCheckbox uses the description as the visible label, falling back to
// the title.
func (r *Renderer) renderCheckbox(prop schema.Property, value form.Value) string {
	checked, _ := value.(form.Boolean)
	label := strings.TrimSpace(prop.Description)
	if label == "" {
		label = fieldLabel(prop)
	}

	var b strings.Builder
	b.WriteString(`<label class="inline-flex items-center gap-2 text-sm text-gray-700">` + "\n")
	b.WriteString(`<input type="checkbox" id="pf-`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`" value="true"`)
	if bool(checked) {
		b.WriteString(` checked`)
	}
	b.WriteString(` class="h-5 w-5">` + "\n")
	b.WriteString(`<span>`)
	b.WriteString(r.policy.Sanitize(label))
	b.WriteString(`</span>` + "\n")
	b.WriteString(`</label>`)
	return b.String()
}

func renderStringList(prop schema.Property, value form.Value) string {
	list, _ := value.(form.StringList)

	var b strings.Builder
	b.WriteString(`<div class="flex flex-col gap-2" data-list="`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`">` + "\n")

	for i, item := range list {
		b.WriteString(`<div class="flex gap-2">` + "\n")
		b.WriteString(`<input type="text" name="`)
		b.WriteString(html.EscapeString(listItemName(prop.Key, i)))
		b.WriteString(`" value="`)
		b.WriteString(html.EscapeString(item))
		b.WriteString(`" class="` + inputClass + ` grow">` + "\n")
		b.WriteString(removeButton(prop.Key, i))
		b.WriteString(`</div>` + "\n")
	}

	b.WriteString(addButton(prop.Key))
	b.WriteString(`</div>`)
	return b.String()
}

// renderRecordList emits one sub-form block per record, each with one
// control per nested property.
func (r *Renderer) renderRecordList(prop schema.Property, value form.Value) (string, error) {
	list, _ := value.(form.RecordList)

	var b strings.Builder
	b.WriteString(`<div class="flex flex-col gap-3" data-list="`)
	b.WriteString(html.EscapeString(prop.Key))
	b.WriteString(`">` + "\n")

	for i, record := range list {
		b.WriteString(`<fieldset class="border border-gray-200 rounded-lg p-3 flex flex-col gap-2">` + "\n")
		for _, nested := range prop.Items.Properties {
			markup, err := r.renderRecordField(prop.Key, i, nested, record[nested.Key])
			if err != nil {
				return "", err
			}
			b.WriteString(markup)
		}
		b.WriteString(removeButton(prop.Key, i))
		b.WriteString(`</fieldset>` + "\n")
	}

	b.WriteString(addButton(prop.Key))
	b.WriteString(`</div>`)
	return b.String(), nil
}

func (r *Renderer) renderRecordField(key string, index int, nested schema.Property, value form.Value) (string, error) {
	editor := form.ResolveEditor(nested)
	if editor == form.EditorNone || editor == form.EditorStringList || editor == form.EditorRecordList {
		// Nested lists are not part of the supported schema shape.
		return "", nil
	}

	name := recordFieldName(key, index, nested.Key)
	var b strings.Builder

	if editor != form.EditorCheckbox {
		b.WriteString(`<label class="text-xs font-medium text-gray-700">`)
		b.WriteString(html.EscapeString(fieldLabel(nested)))
		b.WriteString(`</label>` + "\n")
	}

	switch editor {
	case form.EditorCheckbox:
		checked, _ := value.(form.Boolean)
		b.WriteString(`<label class="inline-flex items-center gap-2 text-sm text-gray-700">`)
		b.WriteString(`<input type="checkbox" name="`)
		b.WriteString(html.EscapeString(name))
		b.WriteString(`" value="true"`)
		if bool(checked) {
			b.WriteString(` checked`)
		}
		b.WriteString(`> <span>`)
		b.WriteString(html.EscapeString(fieldLabel(nested)))
		b.WriteString(`</span></label>`)
	case form.EditorNumber:
		b.WriteString(`<input type="number" name="`)
		b.WriteString(html.EscapeString(name))
		b.WriteString(`" value="`)
		b.WriteString(html.EscapeString(scalarText(value)))
		b.WriteString(`" class="` + inputClass + `">`)
	case form.EditorSelect:
		sub := nested
		sub.Key = name
		b.WriteString(renderSelect(sub, value, false))
	default:
		b.WriteString(`<input type="text" name="`)
		b.WriteString(html.EscapeString(name))
		b.WriteString(`" value="`)
		b.WriteString(html.EscapeString(scalarText(value)))
		b.WriteString(`" class="` + inputClass + `">`)
	}
	b.WriteByte('\n')
	return b.String(), nil
}

func addButton(key string) string {
	return `<button type="submit" name="` + opField + `" value="` +
		html.EscapeString("add:"+key) +
		`" formnovalidate class="text-sm text-blue-600 text-left">+ Add item</button>` + "\n"
}

func removeButton(key string, index int) string {
	return `<button type="submit" name="` + opField + `" value="` +
		html.EscapeString(fmt.Sprintf("remove:%s:%d", key, index)) +
		`" formnovalidate class="text-sm text-red-500">Remove</button>` + "\n"
}

// scalarText renders a scalar value for an HTML attribute. Unset numeric
// fields are backed by an empty String and stay blank.
func scalarText(value form.Value) string {
	switch v := value.(type) {
	case form.String:
		return string(v)
	case form.Number:
		return formatNumber(float64(v))
	case form.Boolean:
		return strconv.FormatBool(bool(v))
	default:
		return ""
	}
}

func enumText(raw any) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
