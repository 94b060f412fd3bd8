package console_test

import (
	"strings"
	"testing"

	"github.com/fincon/fincon/pkg/api"
	"github.com/fincon/fincon/pkg/console"
)

func TestGetFieldResolvesNestedPaths(t *testing.T) {
	obj := api.Object{
		"id": "abc",
		"events": map[string]any{
			"created": map[string]any{"at": "2026-01-01T00:00:00Z"},
		},
	}

	col := console.ColumnDescriptor{Title: "ID", FieldPath: "id"}
	if got := col.GetField(obj); got != "abc" {
		t.Fatalf("got %q", got)
	}

	col = console.ColumnDescriptor{Title: "At", FieldPath: "events.created.at"}
	if got := col.GetField(obj); got != "2026-01-01T00:00:00Z" {
		t.Fatalf("got %q", got)
	}
}

func TestGetFieldMissingDataIsPlaceholderNeverError(t *testing.T) {
	cases := []struct {
		name string
		obj  api.Object
		path string
	}{
		{"missing key", api.Object{"id": "x"}, "name"},
		{"missing nested key", api.Object{"events": map[string]any{}}, "events.created.at"},
		{"non-mapping intermediate", api.Object{"events": "oops"}, "events.created"},
		{"empty string", api.Object{"name": ""}, "name"},
		{"zero number", api.Object{"amount": float64(0)}, "amount"},
		{"empty map", api.Object{"owner": map[string]any{}}, "owner"},
	}
	for _, tc := range cases {
		col := console.ColumnDescriptor{Title: tc.name, FieldPath: tc.path}
		if got := col.GetField(tc.obj); got != "-" {
			t.Fatalf("%s: expected placeholder, got %q", tc.name, got)
		}
	}
}

func TestGetFieldFormatterSkippedForMissingValues(t *testing.T) {
	called := false
	col := console.ColumnDescriptor{
		Title:     "Status",
		FieldPath: "status",
		Formatter: func(any) string { called = true; return "formatted" },
	}

	if got := col.GetField(api.Object{}); got != "-" {
		t.Fatalf("got %q", got)
	}
	if called {
		t.Fatal("formatter must not run for absent values")
	}

	if got := col.GetField(api.Object{"status": "active"}); got != "formatted" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatValueScalars(t *testing.T) {
	if got := console.FormatValue(float64(12.5)); got != "12.5" {
		t.Fatalf("got %q", got)
	}
	if got := console.FormatValue(true); got != "true" {
		t.Fatalf("got %q", got)
	}
	if got := console.FormatValue("x"); got != "x" {
		t.Fatalf("got %q", got)
	}
}

func TestMinLengthValidator(t *testing.T) {
	v := console.MinLength(1)
	if err := v("  "); err == nil {
		t.Fatal("whitespace-only value must fail")
	}
	if err := v("ok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v = console.MinLength(3)
	err := v("ab")
	if err == nil || !strings.Contains(err.Error(), "3") {
		t.Fatalf("expected a length message, got %v", err)
	}
}

func TestFormatObjectLabel(t *testing.T) {
	obj := api.Object{"id": "AFF-1", "name": "Acme"}
	if got := console.FormatObjectLabel(obj); got != "AFF-1 - Acme" {
		t.Fatalf("got %q", got)
	}
	if got := console.FormatObjectLabel(nil); got != "-" {
		t.Fatalf("nil object should render the placeholder, got %q", got)
	}
}

func TestDescriptorReadOnly(t *testing.T) {
	d := &console.ResourceDescriptor{Collection: "charges"}
	if !d.ReadOnly() {
		t.Fatal("descriptor without fields must be read-only")
	}
	d.Fields = []console.FieldDescriptor{{ID: "name"}}
	if d.ReadOnly() {
		t.Fatal("descriptor with fields must not be read-only")
	}
}
