package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestRoutesTable(t *testing.T) {
	t.Parallel()

	path := writeTestCatalog(t)

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", path, "routes"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two routes, got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "METHOD") {
		t.Errorf("missing header: %q", lines[0])
	}

	// Item operations are listed before collection ones.
	for i, want := range []struct{ fields []string }{
		{[]string{"GET", "/books/{id}", "Book", "get", "GetBook", "no"}},
		{[]string{"POST", "/books", "Book", "post", "AddBook", "yes"}},
	} {
		row := lines[i+1]
		for _, f := range want.fields {
			if !strings.Contains(row, f) {
				t.Errorf("row %d missing %q: %q", i+1, f, row)
			}
		}
	}
}

func TestRoutesRequiresConfig(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"routes"})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected error without --config")
	}
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %T: %v", err, err)
	}
}
