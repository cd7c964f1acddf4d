// Package state holds the field value store of a form session.
package state

import (
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

// Values is a flat snapshot of field values keyed by field key. Snapshots
// handed out by a Store are never mutated afterwards.
type Values map[string]string

// Clone returns an independent copy. A nil receiver yields an empty map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// Store tracks the current values of a session. Updates replace the backing
// map instead of writing into it, so earlier snapshots stay valid. Keys from
// previous schemas are retained.
type Store struct {
	values Values
}

// NewStore seeds the store with a copy of prefill.
func NewStore(prefill map[string]string) *Store {
	return &Store{values: Values(prefill).Clone()}
}

// Get returns the stored value and whether the key is present.
func (s *Store) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s.values[key]
	return value, ok
}

// Set stores value under key.
func (s *Store) Set(key, value string) {
	if s == nil {
		return
	}
	s.values = s.Merge(key, value)
}

// Merge returns a new snapshot with key set to value. The store is unchanged.
func (s *Store) Merge(key, value string) Values {
	var next Values
	if s == nil {
		next = Values{}
	} else {
		next = s.values.Clone()
	}
	next[key] = value
	return next
}

// Replace swaps in a full snapshot. The store keeps its own copy.
func (s *Store) Replace(values map[string]string) {
	if s == nil {
		return
	}
	s.values = Values(values).Clone()
}

// Snapshot returns a copy of the current values.
func (s *Store) Snapshot() Values {
	if s == nil {
		return Values{}
	}
	return s.values.Clone()
}

// Len reports the number of stored keys.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Seed writes the default value (or the empty string) for every known field
// whose key is absent and returns the seeded keys in schema order. Present
// keys, including ones holding an empty string, are left alone, so seeding is
// idempotent.
func (s *Store) Seed(form schema.FormSchema) []string {
	if s == nil {
		return nil
	}
	var seeded []string
	next := s.values
	for _, field := range form.Fields {
		if !field.Type.Known() {
			continue
		}
		if _, ok := next[field.Key]; ok {
			continue
		}
		if seeded == nil {
			next = s.values.Clone()
		}
		next[field.Key] = field.DefaultOrEmpty()
		seeded = append(seeded, field.Key)
	}
	s.values = next
	return seeded
}
