package iolog

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	// registers the "sqlite3" driver
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteWriter writes every row kind into its own table of one SQLite
// database file, following SQLiteLogger's table-per-instance naming
// (_examples/kentwait-contagion/sqlite_logger.go) but collapsing its
// six per-kind database *files* into one database with five tables,
// since epiworldgo's row kinds are small enough to share a connection.
type SQLiteWriter struct {
	path       string
	instanceID int
	db         *sql.DB
}

// NewSQLiteWriter uses basepath + ".db" as the database path, shared by
// every instance; instance index i only names this writer's tables.
func NewSQLiteWriter(basepath string, i int) *SQLiteWriter {
	return &SQLiteWriter{path: fmt.Sprintf("%s.db", basepath), instanceID: i}
}

func (w *SQLiteWriter) table(name string) string {
	return fmt.Sprintf("%s%03d", name, w.instanceID)
}

// Init opens the database (creating the file if absent, matching
// OpenSQLiteDBOptimized's WAL/exclusive-locking connection string) and
// creates one table per row kind for this instance.
func (w *SQLiteWriter) Init() error {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal=WAL&_locking=EXCLUSIVE&_sync=NORMAL", w.path))
	if err != nil {
		return errors.Wrapf(err, "opening %s", w.path)
	}
	w.db = db

	stmts := []string{
		fmt.Sprintf(`create table %s (id integer not null primary key, sequence text, parent_id int, date_appeared int)`, w.table("Variant")),
		fmt.Sprintf(`create table %s (variant_id int, state int, count int)`, w.table("VariantHistory")),
		fmt.Sprintf(`create table %s (day int, state int, count int)`, w.table("Totals")),
		fmt.Sprintf(`create table %s (day int, variant_id int, from_agent int, to_agent int)`, w.table("Transmission")),
		fmt.Sprintf(`create table %s (day int, from_state int, to_state int, count int)`, w.table("Transition")),
	}
	for _, stmt := range stmts {
		if _, err := w.db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "creating table: %s", stmt)
		}
	}
	return nil
}

// Flush writes every row currently recorded in db into this instance's
// tables inside one transaction per table, matching SQLiteLogger's
// begin/prepare/exec-per-row/commit shape.
func (w *SQLiteWriter) Flush(db Source) error {
	if err := w.insertRows(w.table("Variant"), "insert into %s(id, sequence, parent_id, date_appeared) values(?, ?, ?, ?)", stringRowsAny(db.VariantInfoRows())); err != nil {
		return err
	}
	if err := w.insertRows(w.table("VariantHistory"), "insert into %s(variant_id, state, count) values(?, ?, ?)", intRowsAny3(db.VariantHistoryRows())); err != nil {
		return err
	}
	if err := w.insertRows(w.table("Totals"), "insert into %s(day, state, count) values(?, ?, ?)", intRowsAny3(db.TotalHistoryRows())); err != nil {
		return err
	}
	if err := w.insertRows(w.table("Transmission"), "insert into %s(day, variant_id, from_agent, to_agent) values(?, ?, ?, ?)", intRowsAny4(db.TransmissionRows())); err != nil {
		return err
	}
	if err := w.insertRows(w.table("Transition"), "insert into %s(day, from_state, to_state, count) values(?, ?, ?, ?)", intRowsAny4(db.TransitionRows())); err != nil {
		return err
	}
	return nil
}

func (w *SQLiteWriter) insertRows(table, stmtTemplate string, rows [][]interface{}) error {
	tx, err := w.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	stmt, err := tx.Prepare(fmt.Sprintf(stmtTemplate, table))
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(row...); err != nil {
			return errors.Wrapf(err, "inserting into %s", table)
		}
	}
	return tx.Commit()
}

// Close releases the underlying database connection.
func (w *SQLiteWriter) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}

func stringRowsAny(rows [][4]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = []interface{}{r[0], r[1], r[2], r[3]}
	}
	return out
}

func intRowsAny3(rows [][3]int) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = []interface{}{r[0], r[1], r[2]}
	}
	return out
}

func intRowsAny4(rows [][4]int) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = []interface{}{r[0], r[1], r[2], r[3]}
	}
	return out
}
