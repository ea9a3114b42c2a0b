// Package engine implements the FreeCell game state.
//
// The whole table lives in fixed arrays: a flat 52-slot card table split
// into 8 columns by tail offsets, 4 free cells, 4 foundations and a compact
// move log. Moves are executed in place by shifting spans of the table, so
// no operation allocates beyond a small fixed buffer. An Engine serves a
// single caller; it is not safe for concurrent use.
package engine

// initialTails splits the 52 dealt cards into four columns of 7 and four of 6.
var initialTails = [NumColumns]uint8{7, 14, 21, 28, 34, 40, 46, 52}

// Engine holds the complete state of one FreeCell game.
type Engine struct {
	seed        uint32
	table       [DeckSize]Card
	tails       [NumColumns]uint8
	freeCells   [NumFreeCells]Card
	foundations [NumFoundations]Card
	history     History
}

// New returns an engine with no game dealt: every column, cell and
// foundation is empty. Call Init or Load before playing.
func New() *Engine {
	e := &Engine{}
	for i := range e.table {
		e.table[i] = EmptyCard
	}
	for i := 0; i < NumFreeCells; i++ {
		e.freeCells[i] = EmptyCard
		e.foundations[i] = EmptyCard
	}
	return e
}

// Init deals a new game from seed. Seeds outside [0, MaxSeed] are a
// contract violation; the engine is left untouched in that case.
func (e *Engine) Init(seed int64) error {
	if seed < 0 || seed > MaxSeed {
		return &ContractViolation{Op: "Init", Detail: "seed out of uint32 range"}
	}
	e.seed = uint32(seed)
	for i := 0; i < NumFreeCells; i++ {
		e.freeCells[i] = EmptyCard
		e.foundations[i] = EmptyCard
	}
	e.history.Reset()

	for suit := uint8(0); suit < NumSuits; suit++ {
		for rank := uint8(0); rank < NumRanks; rank++ {
			e.table[int(suit)*NumRanks+int(rank)] = NewCard(suit, rank)
		}
	}
	shuffle(&e.table, e.seed)
	e.tails = initialTails
	return nil
}

// Seed returns the seed of the current deal.
func (e *Engine) Seed() uint32 { return e.seed }

// ---------------------------------------------------------------------------
// Positional accessors
// ---------------------------------------------------------------------------

// span returns the [start, end) table slots of column col without checks.
func (e *Engine) span(col int) (start, end int) {
	if col > 0 {
		start = int(e.tails[col-1])
	}
	return start, int(e.tails[col])
}

// ColumnInfo returns the [start, end) table slots of column col and its size.
func (e *Engine) ColumnInfo(col int) (start, end, size int) {
	if col < 0 || col >= NumColumns {
		violate("ColumnInfo", "column %d out of range", col)
	}
	start, end = e.span(col)
	return start, end, end - start
}

// ColumnLen returns the number of cards in column col.
func (e *Engine) ColumnLen(col int) int {
	_, _, size := e.ColumnInfo(col)
	return size
}

// CardAt returns the card at depth pos of column col; pos 0 is the card
// dealt first (furthest from the playable end).
func (e *Engine) CardAt(col, pos int) Card {
	start, end, _ := e.ColumnInfo(col)
	if pos < 0 || start+pos >= end {
		violate("CardAt", "position %d out of range for column %d", pos, col)
	}
	return e.table[start+pos]
}

// Top returns the playable card of column col, or EmptyCard.
func (e *Engine) Top(col int) Card {
	_, end, size := e.ColumnInfo(col)
	if size == 0 {
		return EmptyCard
	}
	return e.table[end-1]
}

// FreeCellCard returns the card held by free cell i, or EmptyCard.
func (e *Engine) FreeCellCard(i int) Card {
	if i < 0 || i >= NumFreeCells {
		violate("FreeCellCard", "free cell %d out of range", i)
	}
	return e.freeCells[i]
}

// FoundationCard returns the top card of foundation i, or EmptyCard.
// Its rank is the highest rank collected on that foundation.
func (e *Engine) FoundationCard(i int) Card {
	if i < 0 || i >= NumFoundations {
		violate("FoundationCard", "foundation %d out of range", i)
	}
	return e.foundations[i]
}

// CardsLeft returns the number of cards still in columns or free cells.
func (e *Engine) CardsLeft() int {
	n := int(e.tails[NumColumns-1])
	for _, c := range e.freeCells {
		if c != EmptyCard {
			n++
		}
	}
	return n
}

// Won reports whether every card has been collected.
func (e *Engine) Won() bool { return e.CardsLeft() == 0 }

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

// Snapshot is a value copy of the engine state. Mutating it has no effect
// on the engine.
type Snapshot struct {
	Seed        uint32
	Table       [DeckSize]Card
	Tails       [NumColumns]uint8
	FreeCells   [NumFreeCells]Card
	Foundations [NumFoundations]Card
	History     []Record
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Seed:        e.seed,
		Table:       e.table,
		Tails:       e.tails,
		FreeCells:   e.freeCells,
		Foundations: e.foundations,
		History:     e.history.Records(),
	}
}

// Column returns a copy of column col's cards in deal order.
func (s *Snapshot) Column(col int) []Card {
	start := 0
	if col > 0 {
		start = int(s.Tails[col-1])
	}
	out := make([]Card, int(s.Tails[col])-start)
	copy(out, s.Table[start:s.Tails[col]])
	return out
}
