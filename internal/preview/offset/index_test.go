package offset

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// fakeMeasurer returns fixed geometry keyed by block ID.
type fakeMeasurer struct {
	geoms map[string]Geometry
	top   float64
	calls int
}

func (f *fakeMeasurer) Measure(b Block) Geometry {
	f.calls++
	return f.geoms[b.ID]
}

func (f *fakeMeasurer) ContainerTop() float64 { return f.top }

func visible(top, height float64) Geometry {
	return Geometry{Top: top, Height: height, Visible: true}
}

func offsets(t *testing.T, tbl *Table) []float64 {
	t.Helper()
	out := make([]float64, tbl.Len())
	for i := range out {
		e, ok := tbl.Lookup(i)
		if !ok {
			t.Fatalf("line %d has no entry", i)
		}
		out[i] = e.Offset
	}
	return out
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestBuildTwoBlocks(t *testing.T) {
	m := &fakeMeasurer{geoms: map[string]Geometry{
		"a": visible(0, 100),
		"b": visible(100, 50),
	}}
	blocks := []Block{
		{ID: "a", StartLine: 0, EndLine: 4},
		{ID: "b", StartLine: 5, EndLine: 9},
	}

	tbl, err := Build(blocks, m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got, _ := tbl.Offset(2); got != 40 {
		t.Errorf("line 2: expected 40, got %v", got)
	}
	if got, _ := tbl.Offset(7); got != 120 {
		t.Errorf("line 7: expected 120, got %v", got)
	}

	want := []float64{0, 20, 40, 60, 80, 100, 110, 120, 130, 140}
	if diff := cmp.Diff(want, offsets(t, tbl), approx); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
	if tbl.MaxLine() != 9 {
		t.Errorf("expected max line 9, got %d", tbl.MaxLine())
	}
}

func TestBuildSortsBlocks(t *testing.T) {
	m := &fakeMeasurer{geoms: map[string]Geometry{
		"text":     visible(0, 40),
		"footnote": visible(200, 20),
		"tail":     visible(60, 40),
	}}
	sorted := []Block{
		{ID: "text", StartLine: 0, EndLine: 1},
		{ID: "tail", StartLine: 2, EndLine: 3},
		{ID: "footnote", StartLine: 4, EndLine: 4},
	}
	shuffled := []Block{sorted[2], sorted[0], sorted[1]}

	a, err := Build(sorted, m)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(shuffled, m)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(offsets(t, a), offsets(t, b), approx); diff != "" {
		t.Errorf("block order changed offsets (-sorted +shuffled):\n%s", diff)
	}
	want := []float64{0, 20, 60, 80, 200}
	if diff := cmp.Diff(want, offsets(t, a), approx); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDeterministic(t *testing.T) {
	m := &fakeMeasurer{geoms: map[string]Geometry{
		"a": visible(10, 30),
		"b": visible(70, 90),
		"c": visible(200, 15),
	}}
	blocks := []Block{
		{ID: "a", StartLine: 2, EndLine: 4},
		{ID: "b", StartLine: 8, EndLine: 12, Preformatted: true},
		{ID: "c", StartLine: 15, EndLine: 15},
	}

	first, err := Build(blocks, m)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Build(blocks, m)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(offsets(t, first), offsets(t, second)); diff != "" {
		t.Errorf("rebuild differs (-first +second):\n%s", diff)
	}
}

func TestBuildCoverage(t *testing.T) {
	m := &fakeMeasurer{
		top: 5,
		geoms: map[string]Geometry{
			"a":      visible(20, 10),
			"hidden": {Top: 0, Height: 0, Visible: false},
			"b":      visible(80, 40),
		},
	}
	blocks := []Block{
		{ID: "a", StartLine: 3, EndLine: 3},
		{ID: "hidden", StartLine: 5, EndLine: 6},
		{ID: "b", StartLine: 9, EndLine: 12},
	}

	tbl, err := Build(blocks, m)
	if err != nil {
		t.Fatal(err)
	}
	for line := 0; line <= 12; line++ {
		if !tbl.Has(line) {
			t.Errorf("line %d has no direct entry", line)
		}
	}
	if tbl.Len() != 13 {
		t.Errorf("expected 13 entries, got %d", tbl.Len())
	}
	if b, ok := tbl.Block(1); !ok || b.ID != "b" {
		t.Errorf("expected hidden block to be dropped, second block is %+v", b)
	}
	if _, ok := tbl.Block(2); ok {
		t.Error("expected only two visible blocks")
	}
	if e, _ := tbl.Lookup(10); e.Block != 1 {
		t.Errorf("line 10 should belong to block 1, got %d", e.Block)
	}
}

func TestBuildGapInterpolation(t *testing.T) {
	m := &fakeMeasurer{geoms: map[string]Geometry{
		"a": visible(0, 20),
		"b": visible(60, 10),
	}}
	blocks := []Block{
		{ID: "a", StartLine: 0, EndLine: 1},
		{ID: "b", StartLine: 6, EndLine: 6},
	}

	tbl, err := Build(blocks, m)
	if err != nil {
		t.Fatal(err)
	}
	// a ends at 20, b starts at 60: four skipped lines share 40px.
	want := []float64{0, 10, 20, 30, 40, 50, 60}
	if diff := cmp.Diff(want, offsets(t, tbl), approx); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildLeadingGapUsesContainerTop(t *testing.T) {
	m := &fakeMeasurer{
		top:   10,
		geoms: map[string]Geometry{"a": visible(30, 10)},
	}
	tbl, err := Build([]Block{{ID: "a", StartLine: 2, EndLine: 2}}, m)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{10, 20, 30}
	if diff := cmp.Diff(want, offsets(t, tbl), approx); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildZeroOffsetCarriesForward(t *testing.T) {
	// A block inside a collapsed region reports a position above its
	// predecessor, dragging the interpolated gap through zero.
	m := &fakeMeasurer{geoms: map[string]Geometry{
		"a":         visible(10, 10),
		"collapsed": visible(-20, 0),
	}}
	blocks := []Block{
		{ID: "a", StartLine: 0, EndLine: 0},
		{ID: "collapsed", StartLine: 3, EndLine: 3},
	}

	tbl, err := Build(blocks, m)
	if err != nil {
		t.Fatal(err)
	}
	// Gap lines 1 and 2 interpolate 20 -> 0; the zero carries 20 forward.
	want := []float64{10, 20, 20, -20}
	if diff := cmp.Diff(want, offsets(t, tbl), approx); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEmbeddedCodeBias(t *testing.T) {
	m := &fakeMeasurer{geoms: map[string]Geometry{
		"p":    visible(0, 20),
		"code": visible(20, 40),
	}}
	blocks := []Block{
		{ID: "p", StartLine: 0, EndLine: 0},
		{ID: "code", StartLine: 1, EndLine: 4, Preformatted: true},
	}

	tbl, err := Build(blocks, m)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 20, 30 + PreformattedBias, 40 + PreformattedBias, 50 + PreformattedBias}
	if diff := cmp.Diff(want, offsets(t, tbl), approx); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCodeFile(t *testing.T) {
	m := &fakeMeasurer{geoms: map[string]Geometry{"src": visible(0, 90)}}
	// Ten source lines, the last of which is the closing fence that is not
	// rendered: the remaining nine split the height.
	tbl, err := Build([]Block{{ID: "src", StartLine: 0, EndLine: 9, Preformatted: true}}, m)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := tbl.Offset(3); got != 30 {
		t.Errorf("line 3: expected 30 (no bias, 10px per line), got %v", got)
	}
	if got, _ := tbl.Offset(9); got != 90 {
		t.Errorf("line 9: expected 90, got %v", got)
	}
}

func TestBuildOverlappingBlocks(t *testing.T) {
	m := &fakeMeasurer{geoms: map[string]Geometry{
		"list": visible(0, 60),
		"item": visible(30, 30),
	}}
	blocks := []Block{
		{ID: "list", StartLine: 0, EndLine: 5},
		{ID: "item", StartLine: 3, EndLine: 5},
	}
	tbl, err := Build(blocks, m)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 10, 20, 30, 40, 50}
	if diff := cmp.Diff(want, offsets(t, tbl), approx); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
	if e, _ := tbl.Lookup(4); e.Block != 1 {
		t.Errorf("line 4 should be owned by the inner block, got %d", e.Block)
	}
}

func TestBuildMissingLineRange(t *testing.T) {
	tests := []struct {
		name  string
		block Block
	}{
		{"no start", Block{ID: "x", StartLine: NoLine, EndLine: 3}},
		{"no end", Block{ID: "x", StartLine: 1, EndLine: NoLine}},
		{"inverted", Block{ID: "x", StartLine: 4, EndLine: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMeasurer{}
			_, err := Build([]Block{{ID: "ok", StartLine: 0, EndLine: 0}, tt.block}, m)
			if !errors.Is(err, ErrMissingLineRange) {
				t.Fatalf("expected ErrMissingLineRange, got %v", err)
			}
			if m.calls != 0 {
				t.Errorf("nothing should be measured for invalid input, got %d calls", m.calls)
			}
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	tbl, err := Build(nil, &fakeMeasurer{})
	if err != nil {
		t.Fatal(err)
	}
	if !tbl.IsEmpty() {
		t.Error("expected empty table")
	}
	if _, ok := tbl.Lookup(0); ok {
		t.Error("lookup on empty table should fail")
	}
}
