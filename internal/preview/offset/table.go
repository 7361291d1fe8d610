package offset

// Entry is the resolved position of one source line.
type Entry struct {
	// Line is the source line the entry was recorded for. For a fallback
	// lookup it differs from the requested line.
	Line int

	// Offset is the vertical position of the line within the container.
	Offset float64

	// Block is the index of the owning block; see Table.Block.
	Block int
}

// Table is an immutable line -> offset lookup table.
type Table struct {
	entries []Entry
	set     []bool
	blocks  []Block
}

// Empty returns an empty table. Lookups on it always fail.
func Empty() *Table {
	return &Table{}
}

// Len returns one past the highest line with an entry.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// IsEmpty returns true if the table holds no entries.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// MaxLine returns the highest line with an entry, or -1 for an empty table.
func (t *Table) MaxLine() int {
	return t.Len() - 1
}

// Block returns the i-th visible block the table was built from, in line
// order. Entry.Block indexes it.
func (t *Table) Block(i int) (Block, bool) {
	if t == nil || i < 0 || i >= len(t.blocks) {
		return Block{}, false
	}
	return t.blocks[i], true
}

// Has reports whether line has a direct entry.
func (t *Table) Has(line int) bool {
	return line >= 0 && line < t.Len() && t.set[line]
}

// Lookup returns the entry for line. Lines without an entry (collapsed
// regions, lines appended since the last render) resolve to the nearest
// lower line that has one. The second result is false only when no such
// line exists.
func (t *Table) Lookup(line int) (Entry, bool) {
	if t.IsEmpty() || line < 0 {
		return Entry{}, false
	}
	if line >= len(t.entries) {
		line = len(t.entries) - 1
	}
	for ; line >= 0; line-- {
		if t.set[line] {
			return t.entries[line], true
		}
	}
	return Entry{}, false
}

// Offset is Lookup returning only the offset.
func (t *Table) Offset(line int) (float64, bool) {
	e, ok := t.Lookup(line)
	return e.Offset, ok
}

// put records an entry, growing the table as needed.
func (t *Table) put(line int, offset float64, block int) {
	for len(t.entries) <= line {
		t.entries = append(t.entries, Entry{})
		t.set = append(t.set, false)
	}
	t.entries[line] = Entry{Line: line, Offset: offset, Block: block}
	t.set[line] = true
}

// at returns the direct entry for line, if any.
func (t *Table) at(line int) (Entry, bool) {
	if !t.Has(line) {
		return Entry{}, false
	}
	return t.entries[line], true
}
