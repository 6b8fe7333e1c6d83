package iolog

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// newFile creates path and writes b, failing if the file already exists.
// Matches the teacher's NewFile (csv_logger.go), which refuses to silently
// overwrite a prior run's output.
func newFile(path string, b []byte) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("%s already exists", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	if _, err := f.Write(b); err != nil {
		return errors.Wrapf(err, "writing header to %s", path)
	}
	return f.Sync()
}

// appendCSV opens path for append and writes rows with encoding/csv, one
// record per row.
func appendCSV(path string, rows [][]string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "writing row to %s", path)
		}
	}
	w.Flush()
	return w.Error()
}

func stringRows(rows [][4]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r[0], r[1], r[2], r[3]}
	}
	return out
}

func intRows3(rows [][3]int) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{fmt.Sprint(r[0]), fmt.Sprint(r[1]), fmt.Sprint(r[2])}
	}
	return out
}

func intRows4(rows [][4]int) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{fmt.Sprint(r[0]), fmt.Sprint(r[1]), fmt.Sprint(r[2]), fmt.Sprint(r[3])}
	}
	return out
}
