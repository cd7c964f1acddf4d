package state

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

var (
	ErrValuesNotObject = errors.New("state: values document must be an object")
	ErrNestedValue     = errors.New("state: nested objects are not supported")
)

// DecodeValues reads a JSON or YAML object of field values. Scalars are
// stringified, lists are stored as a comma-joined selection and null becomes
// the empty string.
func DecodeValues(data []byte) (Values, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Values{}, nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		if yerr := yaml.Unmarshal(data, &raw); yerr != nil {
			return nil, fmt.Errorf("state: decode values: %w", errors.Join(err, yerr))
		}
	}

	var entries map[string]any
	switch typed := raw.(type) {
	case map[string]any:
		entries = typed
	case map[any]any:
		entries = make(map[string]any, len(typed))
		for key, value := range typed {
			entries[fmt.Sprint(key)] = value
		}
	case nil:
		return Values{}, nil
	default:
		return nil, ErrValuesNotObject
	}

	out := make(Values, len(entries))
	for key, value := range entries {
		text, err := stringify(value)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q", err, key)
		}
		out[key] = text
	}
	return out, nil
}

// ParseAssignments turns "key=value" pairs into values. A pair without "="
// stores the empty string.
func ParseAssignments(pairs []string) Values {
	out := make(Values, len(pairs))
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func stringify(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case bool:
		return strconv.FormatBool(typed), nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(typed), nil
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			text, err := stringify(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, text)
		}
		return schema.JoinSelection(parts), nil
	case map[string]any, map[any]any:
		return "", ErrNestedValue
	default:
		return fmt.Sprint(typed), nil
	}
}
