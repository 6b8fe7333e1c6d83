package epiworld

import "testing"

func TestRecordVariantDedupesBySequence(t *testing.T) {
	db := NewDatabase(2)
	id1, _, err := db.RecordVariant(Seq{0xAB, 0xCD}, -1)
	if err != nil {
		t.Fatal(err)
	}
	id2, _, err := db.RecordVariant(Seq{0xAB, 0xCD}, -1)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Fatalf("expected identical sequences to share an id, got %d and %d", id1, id2)
	}
	id3, _, _ := db.RecordVariant(Seq{0x01}, id1)
	if id3 == id1 {
		t.Fatal("expected a distinct sequence to get a distinct id")
	}
	if db.NumVariants() != 2 {
		t.Fatalf("expected 2 distinct variants, got %d", db.NumVariants())
	}
}

func TestCommitMovesCountsNextIntoCounts(t *testing.T) {
	db := NewDatabase(2)
	id, _, _ := db.RecordVariant(Seq{0x01}, -1)
	db.IncrementState(id, 0)
	db.IncrementState(id, 0)
	db.Commit(1, []int{2, 0})

	rows := db.VariantHistoryRows()
	if len(rows) != 1 || rows[0] != [3]int{id, 0, 2} {
		t.Fatalf("unexpected variant history rows: %v", rows)
	}

	totals := db.TotalHistoryRows()
	if len(totals) != 2 {
		t.Fatalf("expected 2 snapshot rows, got %d", len(totals))
	}
}

func TestTransitionAndTransmissionLogs(t *testing.T) {
	db := NewDatabase(1)
	db.RecordTransition(0, 1)
	db.RecordTransition(0, 1)
	db.RecordTransition(1, 2)
	db.RecordTransmission(0, 3, 4)
	db.Commit(1, []int{1, 0, 0})

	totals := db.TransitionTotals()
	var found bool
	for _, r := range totals {
		if r == [3]int{0, 1, 2} {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected lifetime transition (0,1) with count 2, got %v", totals)
	}

	rows := db.TransitionRows()
	var foundDay bool
	for _, r := range rows {
		if r == [4]int{1, 0, 1, 2} {
			foundDay = true
		}
	}
	if !foundDay {
		t.Fatalf("expected day-1 transition (0,1) with count 2, got %v", rows)
	}

	tx := db.TransmissionRows()
	if len(tx) != 1 || tx[0][2] != 3 || tx[0][3] != 4 {
		t.Fatalf("unexpected transmission rows: %v", tx)
	}
}
