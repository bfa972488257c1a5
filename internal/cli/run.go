package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/bndr/gotabulate"
	"github.com/spf13/cobra"

	"github.com/performate/performate/pkg/form"
	"github.com/performate/performate/pkg/schema"
)

var runBuild string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runBuild, "build", "latest", "build tag to run")
}

var runCmd = &cobra.Command{
	Use:   "run <username>/<name>",
	Short: "Fill in an actor's input interactively and start a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, name, ok := strings.Cut(args[0], "/")
		if !ok || username == "" || name == "" {
			return fmt.Errorf("cli: actor reference must look like username/name, got %q", args[0])
		}

		src, err := terminalSource()
		if err != nil {
			return err
		}
		detail, err := src.ActorDetail(cmd.Context(), username, name)
		if err != nil {
			return err
		}

		values, err := promptValues(detail.InputSchema)
		if err != nil {
			return err
		}

		run, err := src.StartRun(cmd.Context(), detail.ID, values, runBuild)
		if err != nil {
			return err
		}

		rows := [][]string{
			{"Run ID", run.ID},
			{"Actor", run.ActorID},
			{"Status", run.Status},
			{"Dataset", run.DefaultDatasetID},
			{"Started", run.StartedAt},
		}
		t := gotabulate.Create(rows)
		t.SetHeaders([]string{"Field", "Value"})
		t.SetAlign("left")
		fmt.Fprintln(cmd.OutOrStdout(), t.Render("grid"))
		return nil
	},
}

// promptValues walks the schema and asks for each field, starting from the
// same derived defaults the web form shows.
func promptValues(s *schema.InputSchema) (form.ValueMap, error) {
	values := form.DeriveValues(s)
	if !s.HasProperties() {
		return values, nil
	}

	for _, prop := range s.Properties {
		value, err := promptProperty(s, prop, values[prop.Key])
		if err != nil {
			return nil, err
		}
		values[prop.Key] = value
	}
	return values, nil
}

func promptProperty(s *schema.InputSchema, prop schema.Property, current form.Value) (form.Value, error) {
	editor := form.ResolveEditor(prop)
	label := promptLabel(prop)

	var opts []survey.AskOpt
	if s.IsRequired(prop.Key) && editor.EnforcesRequired() {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	switch editor {
	case form.EditorNone:
		return current, nil

	case form.EditorCheckbox:
		enabled := false
		if b, ok := current.(form.Boolean); ok {
			enabled = bool(b)
		}
		prompt := &survey.Confirm{Message: label, Default: enabled, Help: prop.Description}
		if err := survey.AskOne(prompt, &enabled); err != nil {
			return nil, err
		}
		return form.Boolean(enabled), nil

	case form.EditorSelect:
		options, byOption := selectOptions(prop)
		if len(options) == 0 {
			return current, nil
		}
		var choice string
		prompt := &survey.Select{
			Message: label,
			Options: options,
			Default: selectDefault(options, byOption, current),
			Help:    prop.Description,
		}
		if err := survey.AskOne(prompt, &choice, opts...); err != nil {
			return nil, err
		}
		return form.String(byOption[choice]), nil

	case form.EditorNumber:
		raw := scalarText(current)
		prompt := &survey.Input{Message: label, Default: raw, Help: prop.Description}
		opts = append(opts, survey.WithValidator(numberValidator))
		if err := survey.AskOne(prompt, &raw, opts...); err != nil {
			return nil, err
		}
		if strings.TrimSpace(raw) == "" {
			return form.String(""), nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("cli: field %s: %w", prop.Key, err)
		}
		return form.Number(n), nil

	case form.EditorStringList:
		return promptStringList(label, prop, current)

	case form.EditorRecordList:
		return promptRecordList(label, prop)

	default:
		raw := scalarText(current)
		prompt := &survey.Input{Message: label, Default: raw, Help: prop.Description}
		if err := survey.AskOne(prompt, &raw, opts...); err != nil {
			return nil, err
		}
		return form.String(raw), nil
	}
}

func promptStringList(label string, prop schema.Property, current form.Value) (form.Value, error) {
	list, _ := current.(form.StringList)
	items := append(form.StringList{}, list...)
	for {
		var item string
		prompt := &survey.Input{
			Message: fmt.Sprintf("%s (item %d, empty to finish)", label, len(items)+1),
			Help:    prop.Description,
		}
		if err := survey.AskOne(prompt, &item); err != nil {
			return nil, err
		}
		if item == "" {
			return items, nil
		}
		items = append(items, item)
	}
}

func promptRecordList(label string, prop schema.Property) (form.Value, error) {
	list := form.RecordList{}
	if prop.Items == nil || !prop.Items.IsRecord() {
		return list, nil
	}
	for {
		more := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Add %s entry?", label),
			Default: false,
		}
		if err := survey.AskOne(prompt, &more); err != nil {
			return nil, err
		}
		if !more {
			return list, nil
		}

		record := form.Record{}
		for _, sub := range prop.Items.Properties {
			var raw string
			subPrompt := &survey.Input{Message: label + ": " + promptLabel(sub), Help: sub.Description}
			if err := survey.AskOne(subPrompt, &raw); err != nil {
				return nil, err
			}
			record[sub.Key] = form.String(raw)
		}
		list = append(list, record)
	}
}

func promptLabel(prop schema.Property) string {
	if prop.Title != "" {
		return prop.Title
	}
	return prop.Key
}

// selectOptions pairs display titles with underlying enum values, keeping
// the schema's order. Titles fall back to the raw value.
func selectOptions(prop schema.Property) ([]string, map[string]string) {
	options := make([]string, 0, len(prop.Enum))
	byOption := make(map[string]string, len(prop.Enum))
	for i, raw := range prop.Enum {
		value := fmt.Sprintf("%v", raw)
		title := value
		if i < len(prop.EnumTitles) && prop.EnumTitles[i] != "" {
			title = prop.EnumTitles[i]
		}
		if _, taken := byOption[title]; taken {
			title = fmt.Sprintf("%s (%s)", title, value)
		}
		options = append(options, title)
		byOption[title] = value
	}
	return options, byOption
}

func selectDefault(options []string, byOption map[string]string, current form.Value) interface{} {
	str, ok := current.(form.String)
	if !ok || str == "" {
		return nil
	}
	for _, option := range options {
		if byOption[option] == string(str) {
			return option
		}
	}
	return nil
}

func scalarText(value form.Value) string {
	switch v := value.(type) {
	case form.String:
		return string(v)
	case form.Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case form.Boolean:
		return strconv.FormatBool(bool(v))
	default:
		return ""
	}
}

func numberValidator(ans interface{}) error {
	raw, ok := ans.(string)
	if !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}
