package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Severity grades a lint issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is an authoring diagnostic. Lint never blocks adoption of a schema;
// issues flagged as errors describe fields that can never validate cleanly or
// will not be rendered.
type Issue struct {
	Index    int      `json:"index"`
	Key      string   `json:"key,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Key != "" {
		return fmt.Sprintf("%s: fields[%d] (%s): %s", i.Severity, i.Index, i.Key, i.Message)
	}
	return fmt.Sprintf("%s: fields[%d]: %s", i.Severity, i.Index, i.Message)
}

// Lint inspects a parsed schema for authoring mistakes the parser lets through.
func Lint(form FormSchema) []Issue {
	var issues []Issue
	add := func(idx int, key string, severity Severity, format string, args ...any) {
		issues = append(issues, Issue{
			Index:    idx,
			Key:      key,
			Severity: severity,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	for _, skipped := range form.Skipped {
		add(skipped.Index, "", SeverityError, "entry skipped: %s", skipped.Error)
	}

	for idx, field := range form.Fields {
		key := field.Key
		if strings.TrimSpace(key) == "" {
			add(idx, key, SeverityWarning, "key is empty")
		}
		if !field.Type.Known() {
			add(idx, key, SeverityError, "unknown type %q; field will not be rendered", field.Type)
			continue
		}
		if field.HasOptions() && len(field.Children) == 0 {
			add(idx, key, SeverityWarning, "%s field has no children", field.Type)
		}
		if field.HasOptions() && field.DefaultValue != nil && *field.DefaultValue != "" {
			lintDefaultOption(field, func(value string) {
				add(idx, key, SeverityWarning, "default value %q is not an option", value)
			})
		}
		if field.Pattern != "" {
			if _, err := regexp.Compile(field.Pattern); err != nil {
				add(idx, key, SeverityWarning, "pattern hint does not compile: %v", err)
			}
		}
		lintValidation(field.Validation, func(severity Severity, format string, args ...any) {
			add(idx, key, severity, format, args...)
		})
	}

	return issues
}

func lintDefaultOption(field FieldConfig, report func(string)) {
	allowed := make(map[string]struct{}, len(field.Children))
	for _, option := range field.Children {
		allowed[option.Value] = struct{}{}
	}
	values := []string{field.DefaultOrEmpty()}
	if field.IsMultiSelect() {
		values = SplitSelection(field.DefaultOrEmpty())
	}
	for _, value := range values {
		if _, ok := allowed[value]; !ok {
			report(value)
		}
	}
}

func lintValidation(v *ValidatorConfig, report func(Severity, string, ...any)) {
	if v == nil {
		return
	}
	if v.MinLength != nil && *v.MinLength < 0 {
		report(SeverityWarning, "minLength %d is negative", *v.MinLength)
	}
	if v.MaxLength != nil && *v.MaxLength < 0 {
		report(SeverityError, "maxLength %d is negative; every value is too long", *v.MaxLength)
	}
	if v.MinLength != nil && v.MaxLength != nil && *v.MinLength > *v.MaxLength {
		report(SeverityError, "minLength %d exceeds maxLength %d", *v.MinLength, *v.MaxLength)
	}
	if v.Min != nil || v.Max != nil {
		report(SeverityWarning, "min/max are not evaluated by the validator")
	}
	if v.Pattern != "" {
		if _, err := regexp.Compile(v.Pattern); err != nil {
			report(SeverityError, "validation pattern does not compile: %v", err)
		}
	}
}
