package validation

// Project collapses violations into one message per field key. The first
// violation for a key wins; keys without violations are absent.
func Project(violations []Violation) map[string]string {
	out := make(map[string]string, len(violations))
	for _, violation := range violations {
		if _, exists := out[violation.Field]; exists {
			continue
		}
		out[violation.Field] = violation.Message
	}
	return out
}

// ProjectField returns the first violation message recorded for key.
func ProjectField(violations []Violation, key string) (string, bool) {
	for _, violation := range violations {
		if violation.Field == key {
			return violation.Message, true
		}
	}
	return "", false
}
