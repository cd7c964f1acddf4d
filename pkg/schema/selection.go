package schema

import "strings"

// SelectionSeparator joins multi-select values into a single stored string.
const SelectionSeparator = ","

// JoinSelection serialises selected option values for storage.
func JoinSelection(values []string) string {
	return strings.Join(values, SelectionSeparator)
}

// SplitSelection restores the selected option values from a stored string. An
// empty string yields an empty, non-nil slice.
func SplitSelection(stored string) []string {
	if stored == "" {
		return []string{}
	}
	return strings.Split(stored, SelectionSeparator)
}

// ToggleSelection applies a click on value. Multi-select toggles membership and
// keeps the existing order; single-select replaces the selection.
func ToggleSelection(selected []string, value string, multiple bool) []string {
	if !multiple {
		return []string{value}
	}
	out := make([]string, 0, len(selected)+1)
	removed := false
	for _, item := range selected {
		if item == value {
			removed = true
			continue
		}
		out = append(out, item)
	}
	if !removed {
		out = append(out, value)
	}
	return out
}
