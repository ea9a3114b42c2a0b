package engine

// PossibleMove finds one card that can safely be collected to a foundation.
// Column tops are scanned first (column 0 to 7), then free cells.
//
// A card is safe to collect when it is the next rank for its suit and no
// higher than one above the lowest foundation of the opposite color group,
// so it can no longer be needed as a build target on the tableau.
func (e *Engine) PossibleMove() (from, to Location, ok bool) {
	// next[s] is the rank suit s needs next (0 while its Ace is out).
	var next [NumSuits]uint8
	for _, top := range e.foundations {
		if top != EmptyCard {
			next[top.Suit()] = top.Rank() + 1
		}
	}
	// limit[g] caps collectable ranks for color group g.
	limit := [2]uint8{
		min(next[SuitClubs], next[SuitSpades]),
		min(next[SuitHearts], next[SuitDiamonds]),
	}

	for loc := Location(0); loc < FirstFoundation; loc++ {
		card := e.source(loc)
		if card == EmptyCard {
			continue
		}
		suit, rank := card.Split()
		if rank > limit[card.Color()] || rank != next[suit] {
			continue
		}
		if dst, found := e.foundationFor(card); found {
			return loc, dst, true
		}
	}
	return 0, 0, false
}

// foundationFor returns the foundation card may be collected on: the first
// empty one for an Ace, otherwise the one topped by its predecessor.
func (e *Engine) foundationFor(card Card) (Location, bool) {
	want := EmptyCard
	if rank := card.Rank(); rank > 0 {
		want = NewCard(card.Suit(), rank-1)
	}
	for i, top := range e.foundations {
		if top == want {
			return Foundation(i), true
		}
	}
	return 0, false
}

// AutoCollect applies PossibleMove until no safe move remains and returns
// the moves it made.
func (e *Engine) AutoCollect() []Record {
	var done []Record
	for {
		from, to, ok := e.PossibleMove()
		if !ok || !e.Move(from, to) {
			return done
		}
		done = append(done, Record{From: from, To: to, Size: 1})
	}
}
