package iolog

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
)

type fakeSource struct{}

func (fakeSource) VariantInfoRows() [][4]string {
	return [][4]string{{"0", "ab12", "-1", "0"}}
}
func (fakeSource) VariantHistoryRows() [][3]int { return [][3]int{{0, 1, 5}} }
func (fakeSource) TotalHistoryRows() [][3]int   { return [][3]int{{1, 0, 10}, {1, 1, 5}} }
func (fakeSource) TransmissionRows() [][4]int   { return [][4]int{{1, 0, 2, 7}} }
func (fakeSource) TransitionRows() [][4]int     { return [][4]int{{1, 0, 1, 3}} }

func TestCSVWriterInitAndFlushWritesAllFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "run")
	w := NewCSVWriter(base, 0)
	if err := w.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := w.Flush(fakeSource{}); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	lines := countLines(t, w.totalsPath)
	// one header line plus two data rows from fakeSource.TotalHistoryRows
	if lines != 3 {
		t.Fatalf("expected 3 lines in totals file, got %d", lines)
	}
}

func TestCSVWriterInitRejectsExistingFile(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "run")
	w := NewCSVWriter(base, 0)
	if err := w.Init(); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if err := w.Init(); err == nil {
		t.Fatal("expected second Init over existing files to fail")
	}
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	return n
}
