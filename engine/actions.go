package engine

// Move relocates a card or run from one location to another and records it.
// It returns false, leaving the engine untouched, when the move is illegal
// or the history log is full.
func (e *Engine) Move(from, to Location) bool {
	size, ok := e.Plan(from, to)
	if !ok || e.history.Full() {
		return false
	}
	e.execute(from, to, size)
	e.record(from, to, size)
	return true
}

// feasible reports whether execute can carry out a relocation of size cards
// without breaking the table layout. Legal play always passes; it guards
// against history records and tables that came from a hand-edited save.
func (e *Engine) feasible(from, to Location, size int) bool {
	if from == to || size <= 0 || from.IsFoundation() && e.foundations[from.Index()] == EmptyCard {
		return false
	}
	if !from.IsColumn() || !to.IsColumn() {
		if size != 1 {
			return false
		}
	}
	if to.IsFreeCell() && e.freeCells[to.Index()] != EmptyCard {
		return false
	}
	switch {
	case from.IsColumn():
		start, end := e.span(int(from))
		return end-start >= size && size <= MaxRunSize
	case from.IsFreeCell() && e.freeCells[from.Index()] == EmptyCard:
		return false
	case to.IsColumn():
		return e.tails[NumColumns-1] < DeckSize
	}
	return true
}

// execute performs a validated relocation of size cards. Cell endpoints
// always move exactly one card.
func (e *Engine) execute(from, to Location, size int) {
	switch {
	case from.IsColumn() && to.IsColumn():
		e.columnToColumn(int(from), int(to), size)
	case from.IsColumn():
		e.columnToCell(int(from), to)
	case to.IsColumn():
		e.cellToColumn(from, int(to))
	default:
		e.putCell(to, e.takeCell(from))
	}
}

// columnToColumn moves the bottom size cards of column src to the end of
// column dst, shifting the columns in between.
//
//	src < dst:  |  s f   ...   t|   ->   |  s   ...   t f|
//	src > dst:  |t   ...  s f   |   ->   |t f   ...  s   |
func (e *Engine) columnToColumn(src, dst, size int) {
	if size <= 0 || size > MaxRunSize {
		violate("columnToColumn", "run size %d", size)
	}
	var buf [MaxRunSize]Card
	run := buf[:size]
	_, srcEnd := e.span(src)
	_, dstEnd := e.span(dst)
	copy(run, e.table[srcEnd-size:srcEnd])

	if src < dst {
		// Close the gap left by the run, then drop the run at dst's new end.
		copy(e.table[srcEnd-size:dstEnd-size], e.table[srcEnd:dstEnd])
		copy(e.table[dstEnd-size:dstEnd], run)
		for i := src; i < dst; i++ {
			e.tails[i] -= uint8(size)
		}
		return
	}
	// Open a gap after dst by pushing the intervening cards toward src.
	copy(e.table[dstEnd+size:srcEnd], e.table[dstEnd:srcEnd-size])
	copy(e.table[dstEnd:dstEnd+size], run)
	for i := dst; i < src; i++ {
		e.tails[i] += uint8(size)
	}
}

// columnToCell moves the bottom card of column src into a cell and closes
// the gap in the table.
func (e *Engine) columnToCell(src int, to Location) {
	srcStart, srcEnd := e.span(src)
	if srcStart == srcEnd {
		violate("columnToCell", "column %d is empty", src)
	}
	e.putCell(to, e.table[srcEnd-1])
	last := int(e.tails[NumColumns-1])
	copy(e.table[srcEnd-1:last-1], e.table[srcEnd:last])
	e.table[last-1] = EmptyCard
	for i := src; i < NumColumns; i++ {
		e.tails[i]--
	}
}

// cellToColumn moves the card held by a cell onto the end of column dst.
func (e *Engine) cellToColumn(from Location, dst int) {
	last := int(e.tails[NumColumns-1])
	if last >= DeckSize {
		violate("cellToColumn", "table already holds %d cards", last)
	}
	card := e.takeCell(from)
	_, dstEnd := e.span(dst)
	copy(e.table[dstEnd+1:last+1], e.table[dstEnd:last])
	e.table[dstEnd] = card
	for i := dst; i < NumColumns; i++ {
		e.tails[i]++
	}
}

// takeCell removes the card held by a free cell or foundation. Withdrawing
// from a foundation leaves the next lower card of the same suit on top,
// since foundations are only ever built upward from the Ace.
func (e *Engine) takeCell(loc Location) Card {
	i := loc.Index()
	if loc.IsFreeCell() {
		card := e.freeCells[i]
		e.freeCells[i] = EmptyCard
		return card
	}
	card := e.foundations[i]
	if card == EmptyCard {
		violate("takeCell", "foundation %d is empty", i)
	}
	suit, rank := card.Split()
	if rank > 0 {
		e.foundations[i] = NewCard(suit, rank-1)
	} else {
		e.foundations[i] = EmptyCard
	}
	return card
}

func (e *Engine) putCell(loc Location, card Card) {
	if loc.IsFreeCell() {
		e.freeCells[loc.Index()] = card
		return
	}
	e.foundations[loc.Index()] = card
}
