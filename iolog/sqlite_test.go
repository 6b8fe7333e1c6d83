package iolog

import "testing"

func TestSQLiteWriterTableNamingIncludesInstanceID(t *testing.T) {
	w := NewSQLiteWriter("/tmp/run", 3)
	if got, want := w.table("Variant"), "Variant003"; got != want {
		t.Fatalf("table name = %q, want %q", got, want)
	}
}

func TestSQLiteWriterCloseBeforeInitIsNoop(t *testing.T) {
	w := NewSQLiteWriter("/tmp/run", 0)
	if err := w.Close(); err != nil {
		t.Fatalf("expected nil error closing an unopened writer, got %v", err)
	}
}
