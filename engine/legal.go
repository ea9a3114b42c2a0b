package engine

// MaxFrom returns the length of the run that can be lifted from loc: the
// longest alternating-color descending suffix of a column, 1 for an occupied
// free cell, 0 otherwise. Foundations are never move sources.
func (e *Engine) MaxFrom(loc Location) int {
	switch {
	case loc.IsColumn():
		start, end := e.span(int(loc))
		if end == start {
			return 0
		}
		i := end - 1
		for i > start && e.table[i].Stacks(e.table[i-1]) {
			i--
		}
		return end - i
	case loc.IsFreeCell():
		if e.freeCells[loc.Index()] == EmptyCard {
			return 0
		}
		return 1
	}
	return 0
}

// MaxTo returns how many cards loc can absorb in one move.
//
// A column destination takes (E+1) * 2^O cards, where E is the number of
// empty free cells and O the number of other empty columns.
func (e *Engine) MaxTo(loc Location) int {
	switch {
	case loc.IsColumn():
		free := 0
		for _, c := range e.freeCells {
			if c == EmptyCard {
				free++
			}
		}
		cols := 0
		for col := 0; col < NumColumns; col++ {
			if Location(col) == loc {
				continue
			}
			if start, end := e.span(col); start == end {
				cols++
			}
		}
		return (free + 1) << cols
	case loc.IsFreeCell():
		if e.freeCells[loc.Index()] == EmptyCard {
			return 1
		}
		return 0
	case loc.IsFoundation():
		return 1
	}
	return 0
}

// target returns the card a move onto loc must build on, or EmptyCard.
// Free cells only accept moves while empty.
func (e *Engine) target(loc Location) Card {
	switch {
	case loc.IsColumn():
		return e.source(loc)
	case loc.IsFoundation():
		return e.foundations[loc.Index()]
	}
	return EmptyCard
}

// source returns the playable card at loc (column top or free cell card).
func (e *Engine) source(loc Location) Card {
	if loc.IsColumn() {
		start, end := e.span(int(loc))
		if start == end {
			return EmptyCard
		}
		return e.table[end-1]
	}
	return e.freeCells[loc.Index()]
}

// Plan reports how many cards a move from one location to another would
// relocate. ok is false when the move is illegal; the engine is never
// mutated. Ids outside 0..15 are a contract violation.
func (e *Engine) Plan(from, to Location) (size int, ok bool) {
	if !from.Valid() || !to.Valid() {
		violate("Plan", "location out of range (from=%d to=%d)", from, to)
	}
	size, ok = e.plan(from, to)
	if !ok || !e.feasible(from, to, size) {
		return 0, false
	}
	return size, true
}

func (e *Engine) plan(from, to Location) (int, bool) {
	if from == to || from.IsFoundation() {
		return 0, false
	}
	limit := min(e.MaxFrom(from), e.MaxTo(to))
	if limit <= 0 {
		return 0, false
	}

	top := e.target(to)
	if top == EmptyCard {
		if !to.IsFoundation() {
			// Empty columns and free cells accept any run within capacity.
			return limit, true
		}
		if e.source(from).Rank() != RankAce {
			return 0, false
		}
		return 1, true
	}

	if from.IsFreeCell() {
		card := e.freeCells[from.Index()]
		if to.IsColumn() && card.Stacks(top) {
			return 1, true
		}
		if to.IsFoundation() && card.Follows(top) {
			return 1, true
		}
		return 0, false
	}

	// Column source onto an occupied column or foundation.
	start, end := e.span(int(from))
	if to.IsFoundation() {
		if e.table[end-1].Follows(top) {
			return 1, true
		}
		return 0, false
	}
	lo := max(start, end-limit)
	for i := end - 1; i >= lo; i-- {
		if e.table[i].Stacks(top) {
			return end - i, true
		}
	}
	return 0, false
}
