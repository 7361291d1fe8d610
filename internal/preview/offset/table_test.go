package offset

import "testing"

func TestTableLookupFallsBackToLowerLine(t *testing.T) {
	tbl := &Table{}
	tbl.put(0, 0, 0)
	tbl.put(1, 24, 0)
	tbl.put(3, 72, 1)

	e, ok := tbl.Lookup(2)
	if !ok {
		t.Fatal("expected a fallback entry for line 2")
	}
	if e.Offset != 24 || e.Line != 1 {
		t.Errorf("expected line 1 at 24, got line %d at %v", e.Line, e.Offset)
	}
	if tbl.Has(2) {
		t.Error("line 2 should not have a direct entry")
	}
}

func TestTableLookupPastEnd(t *testing.T) {
	tbl := &Table{}
	tbl.put(0, 0, 0)
	tbl.put(1, 16, 0)

	// Lines appended in the editor since the last render.
	got, ok := tbl.Offset(40)
	if !ok || got != 16 {
		t.Errorf("expected fallback to last line offset 16, got %v (ok=%v)", got, ok)
	}
}

func TestTableLookupNoLowerEntry(t *testing.T) {
	tbl := &Table{}
	tbl.put(3, 30, 0)

	if _, ok := tbl.Lookup(1); ok {
		t.Error("expected no entry below the first known line")
	}
	if _, ok := tbl.Lookup(-1); ok {
		t.Error("negative lines never resolve")
	}
	if got, ok := tbl.Offset(5); !ok || got != 30 {
		t.Errorf("expected 30, got %v (ok=%v)", got, ok)
	}
}

func TestTableNil(t *testing.T) {
	var tbl *Table
	if !tbl.IsEmpty() {
		t.Error("nil table should be empty")
	}
	if tbl.MaxLine() != -1 {
		t.Errorf("expected max line -1, got %d", tbl.MaxLine())
	}
	if _, ok := tbl.Lookup(0); ok {
		t.Error("nil table lookup should fail")
	}
	if _, ok := tbl.Block(0); ok {
		t.Error("nil table has no blocks")
	}
	if !Empty().IsEmpty() {
		t.Error("Empty() should be empty")
	}
}
