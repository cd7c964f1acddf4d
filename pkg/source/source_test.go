package source

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		arg  string
		kind Kind
	}{
		{arg: "form.json", kind: KindFile},
		{arg: "./dir/../form.yaml", kind: KindFile},
		{arg: "https://example.com/form.json", kind: KindURL},
		{arg: "HTTP://example.com/form.json", kind: KindURL},
	}
	for _, tc := range cases {
		src, err := Parse(tc.arg)
		if err != nil {
			t.Fatalf("%s: %v", tc.arg, err)
		}
		if src.Kind() != tc.kind {
			t.Fatalf("%s: expected %s, got %s", tc.arg, tc.kind, src.Kind())
		}
	}

	if src, _ := Parse("./dir/../form.yaml"); src.Location() != "form.yaml" {
		t.Fatalf("expected cleaned path, got %q", src.Location())
	}
	if _, err := Parse("  "); err == nil {
		t.Fatalf("expected error for empty location")
	}
	if _, err := FromURL("ftp://example.com/form.json"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}

func TestNewDocument(t *testing.T) {
	if _, err := NewDocument(nil, []byte("x")); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := NewDocument(FromFile("a.json"), nil); err == nil {
		t.Fatalf("expected error for empty document")
	}

	raw := []byte(`{"title":"T"}`)
	doc := MustNewDocument(FromFile("a.json"), raw)
	raw[0] = 'x'
	if doc.Text()[0] != '{' {
		t.Fatalf("expected document to keep a private copy")
	}
}
