package engine

import (
	"reflect"
	"testing"
)

// runLayout has a three-card run (9h 8c 7d) at the end of column 0, a Ts
// the run can land on in column 1 and an 8s only the 7d fits in column 2.
func runLayout(t *testing.T, free [4]Card) *Engine {
	t.Helper()
	return layout(t, [NumColumns][]string{
		{"Kc", "9h", "8c", "7d"},
		{"Ts"},
		{"8s"},
		{"2h"},
		{"5c"},
		{"6d"},
		{"Jh"},
		{"4s"},
	}, free, emptyCells())
}

// ---------------------------------------------------------------------------
// MaxFrom / MaxTo
// ---------------------------------------------------------------------------

func TestMaxFrom(t *testing.T) {
	e := runLayout(t, cells("Qd"))
	tests := []struct {
		loc  Location
		want int
	}{
		{Column(0), 3},
		{Column(1), 1},
		{FreeCell(0), 1},
		{FreeCell(1), 0},
		{Foundation(0), 0},
		{Location(16), 0},
	}
	for _, tt := range tests {
		if got := e.MaxFrom(tt.loc); got != tt.want {
			t.Errorf("MaxFrom(%v) = %d, want %d", tt.loc, got, tt.want)
		}
	}

	empty := layout(t, [NumColumns][]string{{}, {"Kh"}}, emptyCells(), emptyCells())
	if got := empty.MaxFrom(Column(0)); got != 0 {
		t.Errorf("MaxFrom(empty column) = %d, want 0", got)
	}
}

// TestMaxFromWholeColumn verifies a column that is one run counts entirely.
func TestMaxFromWholeColumn(t *testing.T) {
	e := layout(t, [NumColumns][]string{{"Ks", "Qh", "Jc", "Td", "9s"}}, emptyCells(), emptyCells())
	if got := e.MaxFrom(Column(0)); got != 5 {
		t.Errorf("MaxFrom = %d, want 5", got)
	}
	// Same color breaks the run.
	e = layout(t, [NumColumns][]string{{"Ks", "Qh", "Jd", "Ts"}}, emptyCells(), emptyCells())
	if got := e.MaxFrom(Column(0)); got != 2 {
		t.Errorf("MaxFrom = %d, want 2", got)
	}
}

func TestMaxTo(t *testing.T) {
	e := runLayout(t, emptyCells())
	if got := e.MaxTo(Column(1)); got != 5 {
		t.Errorf("4 free cells, no empty columns: MaxTo = %d, want 5", got)
	}
	full := runLayout(t, cells("Qd", "Qc", "Qh", "Qs"))
	if got := full.MaxTo(Column(1)); got != 1 {
		t.Errorf("no free cells: MaxTo = %d, want 1", got)
	}
	if got := full.MaxTo(FreeCell(0)); got != 0 {
		t.Errorf("occupied free cell: MaxTo = %d, want 0", got)
	}
	if got := e.MaxTo(FreeCell(3)); got != 1 {
		t.Errorf("empty free cell: MaxTo = %d, want 1", got)
	}
	if got := e.MaxTo(Foundation(2)); got != 1 {
		t.Errorf("foundation: MaxTo = %d, want 1", got)
	}
	if got := e.MaxTo(Location(99)); got != 0 {
		t.Errorf("invalid: MaxTo = %d, want 0", got)
	}
}

// TestMaxToSupermoveCapacity verifies (E+1) * 2^O with E=2 free cells and
// O=1 other empty column.
func TestMaxToSupermoveCapacity(t *testing.T) {
	e := layout(t, [NumColumns][]string{
		{"Kc"}, {"Ts"}, {"8s"}, {"2h"}, {"5c"}, {"6d"}, {}, {},
	}, cells("Qd", "Qc"), emptyCells())
	if got := e.MaxTo(Column(7)); got != 6 {
		t.Errorf("MaxTo(empty column) = %d, want 6", got)
	}
	// Both empty columns count when the destination is occupied.
	if got := e.MaxTo(Column(1)); got != 12 {
		t.Errorf("MaxTo(occupied column) = %d, want 12", got)
	}
}

// ---------------------------------------------------------------------------
// Plan / Move legality
// ---------------------------------------------------------------------------

func TestPlanRunOntoMatchingColumn(t *testing.T) {
	e := runLayout(t, emptyCells())
	size, ok := e.Plan(Column(0), Column(1))
	if !ok || size != 3 {
		t.Fatalf("Plan(c1,c2) = (%d,%v), want (3,true)", size, ok)
	}
	// Only the bottom card fits on the 8s.
	size, ok = e.Plan(Column(0), Column(2))
	if !ok || size != 1 {
		t.Fatalf("Plan(c1,c3) = (%d,%v), want (1,true)", size, ok)
	}
	// Nothing in the run fits on the 2h.
	if _, ok := e.Plan(Column(0), Column(3)); ok {
		t.Fatal("Plan(c1,c4) should be illegal")
	}
}

// TestPlanCapacityLimitsRun verifies the run must fit within MaxTo.
func TestPlanCapacityLimitsRun(t *testing.T) {
	// One free cell: capacity 2, the 9h sits three deep.
	e := runLayout(t, cells("Qd", "Qc", "Qh"))
	if _, ok := e.Plan(Column(0), Column(1)); ok {
		t.Fatal("three-card run moved with capacity 2")
	}
	// No free cells: single cards only.
	full := runLayout(t, cells("Qd", "Qc", "Qh", "Qs"))
	if _, ok := full.Plan(Column(0), Column(1)); ok {
		t.Fatal("three-card run moved with capacity 1")
	}
	if size, ok := full.Plan(Column(0), Column(2)); !ok || size != 1 {
		t.Fatalf("single card: Plan = (%d,%v), want (1,true)", size, ok)
	}
}

// TestPlanEmptyColumnTakesLargestRun verifies an empty column accepts
// min(MaxFrom, MaxTo) cards.
func TestPlanEmptyColumnTakesLargestRun(t *testing.T) {
	cols := [NumColumns][]string{{"Kc", "9h", "8c", "7d"}, {"Ts"}, {"8s"}, {"2h"}, {"5c"}, {"6d"}, {"Jh"}, {}}
	e := layout(t, cols, cells("Qd", "Qc"), emptyCells())
	if size, ok := e.Plan(Column(0), Column(7)); !ok || size != 3 {
		t.Fatalf("capacity 3: Plan = (%d,%v), want (3,true)", size, ok)
	}
	e = layout(t, cols, cells("Qd", "Qc", "Qh"), emptyCells())
	if size, ok := e.Plan(Column(0), Column(7)); !ok || size != 2 {
		t.Fatalf("capacity 2: Plan = (%d,%v), want (2,true)", size, ok)
	}
}

func TestPlanRejectsDegenerateMoves(t *testing.T) {
	e := layout(t, [NumColumns][]string{{"Kc"}, {}}, cells("5h"), cells("Ah"))
	cases := []struct {
		name     string
		from, to Location
	}{
		{"same location", Column(0), Column(0)},
		{"from foundation", Foundation(0), Column(1)},
		{"empty column source", Column(1), Column(0)},
		{"empty free cell source", FreeCell(1), Column(1)},
		{"occupied free cell target", Column(0), FreeCell(0)},
	}
	for _, tc := range cases {
		if size, ok := e.Plan(tc.from, tc.to); ok || size != 0 {
			t.Errorf("%s: Plan = (%d,%v), want illegal", tc.name, size, ok)
		}
	}
}

func TestPlanFreeCellSource(t *testing.T) {
	e := runLayout(t, cells("9d", "9s"))
	if size, ok := e.Plan(FreeCell(0), Column(1)); !ok || size != 1 {
		t.Errorf("9d onto Ts: Plan = (%d,%v)", size, ok)
	}
	if _, ok := e.Plan(FreeCell(1), Column(1)); ok {
		t.Error("9s onto Ts should be illegal")
	}
	if size, ok := e.Plan(FreeCell(0), FreeCell(3)); !ok || size != 1 {
		t.Errorf("free cell to empty free cell: Plan = (%d,%v)", size, ok)
	}
	if _, ok := e.Plan(FreeCell(0), FreeCell(1)); ok {
		t.Error("free cell onto occupied free cell should be illegal")
	}
	if size, ok := e.Plan(Column(1), FreeCell(2)); !ok || size != 1 {
		t.Errorf("column to free cell: Plan = (%d,%v)", size, ok)
	}
}

// TestMoveAceFromFreeCellToFoundation covers an Ace collected from a free
// cell and a Two refused by an empty foundation.
func TestMoveAceFromFreeCellToFoundation(t *testing.T) {
	e := layout(t, [NumColumns][]string{{"Kc", "2h"}}, cells("Ah"), emptyCells())

	before := e.Snapshot()
	if e.Move(Column(0), Foundation(0)) {
		t.Fatal("Two placed on an empty foundation")
	}
	if !reflect.DeepEqual(before, e.Snapshot()) {
		t.Fatal("rejected move mutated state")
	}

	if !e.Move(FreeCell(0), Foundation(0)) {
		t.Fatal("Ace from free cell refused by empty foundation")
	}
	top := e.FoundationCard(0)
	if top.Rank() != RankAce || top.Suit() != SuitHearts {
		t.Fatalf("foundation 0 = %v, want Ah", top)
	}
	if e.FreeCellCard(0) != EmptyCard {
		t.Fatal("free cell not cleared")
	}

	if !e.Move(Column(0), Foundation(0)) {
		t.Fatal("2h refused by foundation holding Ah")
	}
	if got := e.FoundationCard(0).Rank(); got != RankTwo {
		t.Fatalf("foundation rank = %d, want %d", got, RankTwo)
	}
}

func TestMoveFoundationSuitMustMatch(t *testing.T) {
	e := layout(t, [NumColumns][]string{{"2d"}, {"3h"}}, cells("2h"), cells("Ah"))
	if e.Move(Column(0), Foundation(0)) {
		t.Error("2d placed on Ah")
	}
	if e.Move(Column(1), Foundation(0)) {
		t.Error("3h placed on Ah")
	}
	if !e.Move(FreeCell(0), Foundation(0)) {
		t.Error("2h from free cell refused by Ah")
	}
	if e.Move(Column(0), Foundation(1)) {
		t.Error("2d placed on an empty foundation")
	}
}

// TestAceTakesAnyEmptyFoundation verifies foundations are not bound to a suit
// until an Ace lands on them.
func TestAceTakesAnyEmptyFoundation(t *testing.T) {
	e := layout(t, [NumColumns][]string{{"As"}}, emptyCells(), emptyCells())
	if !e.Move(Column(0), Foundation(2)) {
		t.Fatal("Ace refused by empty foundation 2")
	}
	if e.FoundationCard(2) != mustCard("As") {
		t.Fatalf("foundation 2 = %v", e.FoundationCard(2))
	}
}
