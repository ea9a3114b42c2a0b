package engine

import (
	"errors"
	"reflect"
	"testing"
)

// emptyCells returns four empty cell slots.
func emptyCells() [4]Card {
	return [4]Card{EmptyCard, EmptyCard, EmptyCard, EmptyCard}
}

// cells builds four cell slots from shorthand; "" means empty.
func cells(specs ...string) [4]Card {
	out := emptyCells()
	for i, s := range specs {
		if s != "" {
			out[i] = mustCard(s)
		}
	}
	return out
}

// layout builds an engine with the given columns (shorthand, deal order),
// free cells and foundations. Unused table slots are EmptyCard.
func layout(t *testing.T, cols [NumColumns][]string, free, found [4]Card) *Engine {
	t.Helper()
	e := New()
	pos := 0
	for i, col := range cols {
		for _, s := range col {
			e.table[pos] = mustCard(s)
			pos++
		}
		e.tails[i] = uint8(pos)
	}
	e.freeCells = free
	e.foundations = found
	return e
}

// newDealtEngine returns an engine initialized with seed.
func newDealtEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	e := New()
	if err := e.Init(seed); err != nil {
		t.Fatalf("Init(%d): %v", seed, err)
	}
	return e
}

// columnCards returns column col in deal order through the public accessors.
func columnCards(e *Engine, col int) []Card {
	n := e.ColumnLen(col)
	out := make([]Card, n)
	for i := 0; i < n; i++ {
		out[i] = e.CardAt(col, i)
	}
	return out
}

func cardsOf(specs ...string) []Card {
	out := make([]Card, len(specs))
	for i, s := range specs {
		out[i] = mustCard(s)
	}
	return out
}

// checkInvariant verifies that columns, free cells and foundations together
// account for each of the 52 cards exactly once and that the tails are sound.
func checkInvariant(t *testing.T, e *Engine) {
	t.Helper()
	seen := make(map[Card]int)
	prev := uint8(0)
	for col, tail := range e.tails {
		if tail < prev {
			t.Fatalf("tails not monotonic at column %d: %v", col, e.tails)
		}
		prev = tail
	}
	last := int(e.tails[NumColumns-1])
	for i := 0; i < last; i++ {
		seen[e.table[i]]++
	}
	for i := last; i < DeckSize; i++ {
		if e.table[i] != EmptyCard {
			t.Fatalf("slot %d past the last column holds %v", i, e.table[i])
		}
	}
	for _, c := range e.freeCells {
		if c != EmptyCard {
			seen[c]++
		}
	}
	total := last
	for _, c := range e.freeCells {
		if c != EmptyCard {
			total++
		}
	}
	for _, top := range e.foundations {
		if top == EmptyCard {
			continue
		}
		total += int(top.Rank()) + 1
		for r := uint8(0); r <= top.Rank(); r++ {
			seen[NewCard(top.Suit(), r)]++
		}
	}
	if total != DeckSize {
		t.Fatalf("card count = %d, want %d", total, DeckSize)
	}
	for c, n := range seen {
		if c == EmptyCard || n != 1 {
			t.Fatalf("card %v seen %d times", c, n)
		}
	}
	if len(seen) != DeckSize {
		t.Fatalf("distinct cards = %d, want %d", len(seen), DeckSize)
	}
}

// mustViolate runs fn and fails unless it panics with a *ContractViolation.
func mustViolate(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("%s: expected contract violation panic", name)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrContractViolation) {
			t.Fatalf("%s: panic %v is not a contract violation", name, r)
		}
	}()
	fn()
}

// withoutHistory drops the history from a snapshot for position comparisons.
func withoutHistory(s Snapshot) Snapshot {
	s.History = nil
	return s
}

// ---------------------------------------------------------------------------

// TestInitDealsEveryCard verifies each seed deals 52 distinct cards in
// columns of 7,7,7,7,6,6,6,6 with empty cells.
func TestInitDealsEveryCard(t *testing.T) {
	for _, seed := range []int64{0, 1, 2, 99, 1 << 31, MaxSeed} {
		e := newDealtEngine(t, seed)
		checkInvariant(t, e)
		for col := 0; col < NumColumns; col++ {
			want := 7
			if col >= 4 {
				want = 6
			}
			if got := e.ColumnLen(col); got != want {
				t.Errorf("seed %d column %d size = %d, want %d", seed, col, got, want)
			}
		}
		for i := 0; i < 4; i++ {
			if e.FreeCellCard(i) != EmptyCard || e.FoundationCard(i) != EmptyCard {
				t.Errorf("seed %d: cell %d not empty after Init", seed, i)
			}
		}
		if e.HistoryLen() != 0 {
			t.Errorf("seed %d: history length %d after Init", seed, e.HistoryLen())
		}
		if e.Seed() != uint32(seed) {
			t.Errorf("Seed() = %d, want %d", e.Seed(), seed)
		}
	}
}

// TestInitRejectsOutOfRangeSeed verifies seeds outside uint32 are a
// contract violation and leave the engine untouched.
func TestInitRejectsOutOfRangeSeed(t *testing.T) {
	e := newDealtEngine(t, 5)
	before := e.Snapshot()
	for _, seed := range []int64{-1, MaxSeed + 1, 1 << 40} {
		err := e.Init(seed)
		if err == nil {
			t.Fatalf("Init(%d) succeeded", seed)
		}
		if !errors.Is(err, ErrContractViolation) {
			t.Fatalf("Init(%d) error %v is not a contract violation", seed, err)
		}
		var cv *ContractViolation
		if !errors.As(err, &cv) || cv.Op != "Init" {
			t.Fatalf("Init(%d) error = %#v", seed, err)
		}
	}
	if !reflect.DeepEqual(before, e.Snapshot()) {
		t.Fatal("rejected Init mutated the engine")
	}
}

// TestInitResetsGame verifies Init clears cells, foundations and history.
func TestInitResetsGame(t *testing.T) {
	e := newDealtEngine(t, 7)
	e.freeCells[0] = mustCard("Ah")
	e.foundations[1] = mustCard("Kc")
	e.record(Column(0), Column(1), 1)
	if err := e.Init(7); err != nil {
		t.Fatal(err)
	}
	fresh := newDealtEngine(t, 7)
	if !reflect.DeepEqual(fresh.Snapshot(), e.Snapshot()) {
		t.Fatal("re-Init differs from a fresh deal")
	}
}

func TestNewEngineIsEmpty(t *testing.T) {
	e := New()
	for col := 0; col < NumColumns; col++ {
		if e.ColumnLen(col) != 0 {
			t.Fatalf("column %d not empty", col)
		}
	}
	if e.CardsLeft() != 0 || e.Top(3) != EmptyCard {
		t.Fatal("new engine holds cards")
	}
	if _, _, ok := e.PossibleMove(); ok {
		t.Fatal("PossibleMove on empty engine")
	}
}

// TestColumnInfo verifies start/end/size over the initial tails.
func TestColumnInfo(t *testing.T) {
	e := newDealtEngine(t, 3)
	want := [][3]int{{0, 7, 7}, {7, 14, 7}, {14, 21, 7}, {21, 28, 7}, {28, 34, 6}, {34, 40, 6}, {40, 46, 6}, {46, 52, 6}}
	for col, w := range want {
		s, en, n := e.ColumnInfo(col)
		if [3]int{s, en, n} != w {
			t.Errorf("ColumnInfo(%d) = (%d,%d,%d), want %v", col, s, en, n, w)
		}
	}
	if e.CardAt(1, 0) != e.table[7] || e.Top(1) != e.table[13] {
		t.Error("CardAt/Top disagree with the table")
	}
}

// TestAccessorsRejectBadIndices verifies out-of-range accessors panic with a
// contract violation.
func TestAccessorsRejectBadIndices(t *testing.T) {
	e := newDealtEngine(t, 3)
	mustViolate(t, "ColumnInfo(-1)", func() { e.ColumnInfo(-1) })
	mustViolate(t, "ColumnInfo(8)", func() { e.ColumnInfo(8) })
	mustViolate(t, "CardAt(4,6)", func() { e.CardAt(4, 6) })
	mustViolate(t, "CardAt(0,-1)", func() { e.CardAt(0, -1) })
	mustViolate(t, "FreeCellCard(4)", func() { e.FreeCellCard(4) })
	mustViolate(t, "FoundationCard(-1)", func() { e.FoundationCard(-1) })
	mustViolate(t, "Move(16,0)", func() { e.Move(16, 0) })
	mustViolate(t, "Plan(0,200)", func() { e.Plan(0, 200) })
}

// TestSnapshotIsACopy verifies callers cannot mutate the engine through a snapshot.
func TestSnapshotIsACopy(t *testing.T) {
	e := newDealtEngine(t, 11)
	e.record(Column(0), FreeCell(0), 1)
	s := e.Snapshot()
	col := s.Column(0)
	col[0] = EmptyCard
	s.Table[0] = EmptyCard
	s.Tails[0] = 0
	s.History[0].Size = 9
	if e.table[0] == EmptyCard || e.tails[0] != 7 || e.History()[0].Size != 1 {
		t.Fatal("snapshot aliases engine storage")
	}
}

func TestSnapshotColumn(t *testing.T) {
	e := layout(t, [NumColumns][]string{{"Kh", "Qs"}, {}, {"2d"}}, emptyCells(), emptyCells())
	s := e.Snapshot()
	if got := s.Column(0); !reflect.DeepEqual(got, cardsOf("Kh", "Qs")) {
		t.Errorf("Column(0) = %v", got)
	}
	if got := s.Column(1); len(got) != 0 {
		t.Errorf("Column(1) = %v", got)
	}
	if got := s.Column(2); !reflect.DeepEqual(got, cardsOf("2d")) {
		t.Errorf("Column(2) = %v", got)
	}
}

func TestWonAndCardsLeft(t *testing.T) {
	e := newDealtEngine(t, 1)
	if e.Won() || e.CardsLeft() != DeckSize {
		t.Fatalf("fresh deal: Won=%v CardsLeft=%d", e.Won(), e.CardsLeft())
	}
	done := layout(t, [NumColumns][]string{}, emptyCells(), cells("Kh", "Kc", "Kd", "Ks"))
	if !done.Won() {
		t.Fatal("all foundations complete but Won() is false")
	}
	checkInvariant(t, done)
}
