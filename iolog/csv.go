// Package iolog writes an epiworld.Database's recorded rows to durable
// storage once a run (or a whole batch of instances) completes. It
// follows the teacher's CSVLogger/SQLiteLogger split
// (_examples/kentwait-contagion/csv_logger.go, sqlite_logger.go):
// one file/table per row kind, named from a shared base path plus an
// instance index, written in one shot at Flush rather than streamed
// per-event, since epiworldgo's Database already buffers a full run's
// rows in memory.
package iolog

import "fmt"

// Writer is the common contract the CLI driver targets: build one per
// realization, call Flush once the model run finishes.
type Writer interface {
	Init() error
	Flush(db Source) error
	Close() error
}

// Source is the subset of epiworld.Database's row accessors a Writer
// needs. Declaring it here, rather than importing epiworld.Database
// directly, keeps iolog ignorant of the simulation kernel's internals.
type Source interface {
	VariantInfoRows() [][4]string
	VariantHistoryRows() [][3]int
	TotalHistoryRows() [][3]int
	TransmissionRows() [][4]int
	TransitionRows() [][4]int
}

// CSVWriter writes each row kind to its own comma-delimited file, matching
// CSVLogger's one-file-per-kind layout.
type CSVWriter struct {
	variantPath     string
	historyPath     string
	totalsPath      string
	transmissionPath string
	transitionPath  string
}

// NewCSVWriter derives every output path from basepath and instance index
// i, exactly as CSVLogger.SetBasePath does.
func NewCSVWriter(basepath string, i int) *CSVWriter {
	w := new(CSVWriter)
	w.setBasePath(basepath, i)
	return w
}

func (w *CSVWriter) setBasePath(basepath string, i int) {
	w.variantPath = suffixed(basepath, i, "variant")
	w.historyPath = suffixed(basepath, i, "history")
	w.totalsPath = suffixed(basepath, i, "totals")
	w.transmissionPath = suffixed(basepath, i, "trans")
	w.transitionPath = suffixed(basepath, i, "transition")
}

func suffixed(basepath string, i int, kind string) string {
	return fmt.Sprintf("%s.%03d.%s.csv", basepath, i, kind)
}

// Init creates each output file with its header row, failing if any
// already exists, matching CSVLogger.Init's NewFile semantics.
func (w *CSVWriter) Init() error {
	headers := map[string]string{
		w.variantPath:      "id,sequence,parent_id,date_appeared\n",
		w.historyPath:      "variant_id,state,count\n",
		w.totalsPath:       "day,state,count\n",
		w.transmissionPath: "day,variant_id,from_agent,to_agent\n",
		w.transitionPath:   "day,from_state,to_state,count\n",
	}
	for path, header := range headers {
		if err := newFile(path, []byte(header)); err != nil {
			return err
		}
	}
	return nil
}

// Flush appends every row currently recorded in db to its matching file.
func (w *CSVWriter) Flush(db Source) error {
	if err := appendCSV(w.variantPath, stringRows(db.VariantInfoRows())); err != nil {
		return err
	}
	if err := appendCSV(w.historyPath, intRows3(db.VariantHistoryRows())); err != nil {
		return err
	}
	if err := appendCSV(w.totalsPath, intRows3(db.TotalHistoryRows())); err != nil {
		return err
	}
	if err := appendCSV(w.transmissionPath, intRows4(db.TransmissionRows())); err != nil {
		return err
	}
	if err := appendCSV(w.transitionPath, intRows4(db.TransitionRows())); err != nil {
		return err
	}
	return nil
}

// Close is a no-op for CSVWriter: every Flush opens and closes its own
// file handles, so there is no persistent connection to release.
func (w *CSVWriter) Close() error { return nil }
