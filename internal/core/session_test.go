package core

import (
	"errors"
	"testing"
)

func newTestSession() *Session {
	table := TableName{Catalog: "cat", Schema: "ns", Table: "t1"}
	schema := Schema{
		{Name: "id", Kind: KindNumeric},
		{Name: "name", Kind: KindText},
		{Name: "due", Kind: KindDate},
	}
	rows := []Row{
		{Number(1), Text("a"), Null()},
		{Number(2), Text("b"), Null()},
	}
	return NewSession(table, schema, rows)
}

func TestApplyEdit(t *testing.T) {
	sess := newTestSession()

	if err := sess.ApplyEdit(0, "name", "edited"); err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	if got := sess.Grid[0][1]; got != Text("edited") {
		t.Errorf("cell = %v, want edited", got)
	}
	if sess.Changes().Len() != 1 {
		t.Errorf("Changes().Len() = %d, want 1", sess.Changes().Len())
	}

	// Numeric cells parse at edit time.
	if err := sess.ApplyEdit(0, "id", "nope"); err == nil {
		t.Errorf("ApplyEdit(id, nope) succeeded, want error")
	}
	if err := sess.ApplyEdit(0, "id", "10"); err != nil {
		t.Fatalf("ApplyEdit(id, 10) error = %v", err)
	}
	if got := sess.Grid[0][0]; got != Number(10) {
		t.Errorf("numeric cell = %v, want 10", got)
	}

	// Date cells keep the raw string until save.
	if err := sess.ApplyEdit(1, "due", "not-a-date"); err != nil {
		t.Fatalf("ApplyEdit(due) error = %v", err)
	}
	if got := sess.Grid[1][2]; got != Text("not-a-date") {
		t.Errorf("date cell = %v, want pending text", got)
	}
}

func TestApplyEdit_Bounds(t *testing.T) {
	sess := newTestSession()

	if err := sess.ApplyEdit(5, "name", "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("ApplyEdit(5) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := sess.ApplyEdit(0, "ghost", "x"); err == nil {
		t.Errorf("ApplyEdit(ghost column) succeeded, want error")
	}
	if !sess.Changes().Empty() {
		t.Errorf("failed edits were recorded as changes")
	}
}

func TestSessionReset(t *testing.T) {
	sess := newTestSession()
	sess.RecordEdit(0, 1)
	sess.Reset()
	if !sess.Changes().Empty() {
		t.Errorf("Changes() not empty after reset")
	}
	if len(sess.Grid) != 2 {
		t.Errorf("reset discarded the grid")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	sess := newTestSession()

	r.Put(sess)
	if got, ok := r.Get(sess.ID); !ok || got != sess {
		t.Fatalf("Get() = %v, %v", got, ok)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}

	r.Drop(sess.ID)
	if _, ok := r.Get(sess.ID); ok {
		t.Errorf("session still present after Drop")
	}
}
