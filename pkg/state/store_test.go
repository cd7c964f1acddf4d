package state

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

func TestStore_MergeLeavesStoreUnchanged(t *testing.T) {
	store := NewStore(map[string]string{"a": "1"})

	next := store.Merge("b", "2")
	if diff := cmp.Diff(Values{"a": "1", "b": "2"}, next); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if _, ok := store.Get("b"); ok {
		t.Fatalf("expected merge to leave store unchanged")
	}
}

func TestStore_SnapshotsAreNotMutated(t *testing.T) {
	prefill := map[string]string{"a": "1"}
	store := NewStore(prefill)
	prefill["a"] = "changed"

	before := store.Snapshot()
	store.Set("a", "2")
	store.Set("c", "3")

	if diff := cmp.Diff(Values{"a": "1"}, before); diff != "" {
		t.Fatalf("snapshot mutated (-want +got):\n%s", diff)
	}
	if value, _ := store.Get("a"); value != "2" {
		t.Fatalf("expected a=2, got %q", value)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", store.Len())
	}
}

func TestStore_SeedUsesDefaultsAndIsIdempotent(t *testing.T) {
	form := schema.MustParse(`{
  "title": "T",
  "fields": [
    {"id": "1", "type": "text", "key": "name", "defaultValue": "Kailas"},
    {"id": "2", "type": "select", "key": "colour"},
    {"id": "3", "type": "slider", "key": "volume", "defaultValue": "11"},
    {"id": "4", "type": "text", "key": "kept", "defaultValue": "ignored"}
  ]
}`)
	store := NewStore(map[string]string{"kept": ""})

	seeded := store.Seed(form)
	if diff := cmp.Diff([]string{"name", "colour"}, seeded); diff != "" {
		t.Fatalf("seeded keys mismatch (-want +got):\n%s", diff)
	}
	want := Values{"name": "Kailas", "colour": "", "kept": ""}
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if again := store.Seed(form); len(again) != 0 {
		t.Fatalf("expected second seed to be a no-op, got %v", again)
	}
}

func TestStore_NilReceiver(t *testing.T) {
	var store *Store
	if _, ok := store.Get("a"); ok {
		t.Fatalf("expected nil store to report absent keys")
	}
	if got := store.Snapshot(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %#v", got)
	}
	store.Set("a", "1")
}

func TestDecodeValues(t *testing.T) {
	cases := []struct {
		name string
		data string
		want Values
	}{
		{name: "empty", data: "", want: Values{}},
		{name: "json", data: `{"username": "kai", "age": 42, "ok": true, "tags": ["a", "b"], "none": null}`,
			want: Values{"username": "kai", "age": "42", "ok": "true", "tags": "a,b", "none": ""}},
		{name: "yaml", data: "username: kai\ntags:\n  - a\n  - b\ncount: 3\n",
			want: Values{"username": "kai", "tags": "a,b", "count": "3"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeValues([]byte(tc.data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeValues_Rejections(t *testing.T) {
	if _, err := DecodeValues([]byte(`["a"]`)); !errors.Is(err, ErrValuesNotObject) {
		t.Fatalf("expected ErrValuesNotObject, got %v", err)
	}
	if _, err := DecodeValues([]byte(`{"a": {"b": 1}}`)); !errors.Is(err, ErrNestedValue) {
		t.Fatalf("expected ErrNestedValue, got %v", err)
	}
}

func TestParseAssignments(t *testing.T) {
	got := ParseAssignments([]string{"username=kai", "empty=", "flag", " =skip", "expr=a=b"})
	want := Values{"username": "kai", "empty": "", "flag": "", "expr": "a=b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("assignments mismatch (-want +got):\n%s", diff)
	}
}
