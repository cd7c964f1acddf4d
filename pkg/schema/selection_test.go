package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitSelection_EmptyYieldsNoValues(t *testing.T) {
	got := SplitSelection("")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	stored := JoinSelection([]string{"a", "b"})
	if stored != "a,b" {
		t.Fatalf("expected a,b, got %q", stored)
	}
	if diff := cmp.Diff([]string{"a", "b"}, SplitSelection(stored)); diff != "" {
		t.Fatalf("split mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleSelection(t *testing.T) {
	cases := []struct {
		name     string
		selected []string
		value    string
		multiple bool
		want     []string
	}{
		{name: "multi add to empty", selected: []string{}, value: "a", multiple: true, want: []string{"a"}},
		{name: "multi append", selected: []string{"a"}, value: "b", multiple: true, want: []string{"a", "b"}},
		{name: "multi remove keeps order", selected: []string{"a", "b", "c"}, value: "b", multiple: true, want: []string{"a", "c"}},
		{name: "single replace", selected: []string{"a"}, value: "b", multiple: false, want: []string{"b"}},
		{name: "single reselect", selected: []string{"a"}, value: "a", multiple: false, want: []string{"a"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToggleSelection(tc.selected, tc.value, tc.multiple)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("toggle mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToggleSelection_DoesNotMutateInput(t *testing.T) {
	selected := []string{"a", "b"}
	_ = ToggleSelection(selected, "a", true)
	if diff := cmp.Diff([]string{"a", "b"}, selected); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}
