// internal/game/view.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/freecell/engine"
)

// CardView is one card as shown to clients.
type CardView struct {
	Code  uint8  `json:"code"`  // Raw engine byte, (rank << 2) | suit.
	Rank  string `json:"rank"`  // "A", "2" ... "T", "J", "Q", "K".
	Suit  string `json:"suit"`  // "H", "C", "D", "S".
	Label string `json:"label"` // Short form used by the text renderer, e.g. "Th".
}

// View is a read-only projection of a session for rendering or JSON output.
type View struct {
	SessionID   uuid.UUID    `json:"sessionId"`
	Started     bool         `json:"started"`
	Seed        uint32       `json:"seed"`
	Columns     [][]CardView `json:"columns"`     // Deal order; the last card is playable.
	FreeCells   []*CardView  `json:"freeCells"`   // nil entries are empty cells.
	Foundations []*CardView  `json:"foundations"` // Top card of each foundation, nil if empty.
	Moves       int          `json:"moves"`       // Undoable history records.
	CardsLeft   int          `json:"cardsLeft"`
	Won         bool         `json:"won"`
}

// rankName converts an engine rank to its display string.
func rankName(rank uint8) string {
	switch rank {
	case engine.RankAce:
		return "A"
	case engine.RankTen:
		return "T"
	case engine.RankJack:
		return "J"
	case engine.RankQueen:
		return "Q"
	case engine.RankKing:
		return "K"
	}
	if rank < engine.NumRanks {
		return string(rune('1' + rank))
	}
	return "?"
}

// suitName converts an engine suit to its display string.
func suitName(suit uint8) string {
	switch suit {
	case engine.SuitHearts:
		return "H"
	case engine.SuitClubs:
		return "C"
	case engine.SuitDiamonds:
		return "D"
	case engine.SuitSpades:
		return "S"
	default:
		return "?"
	}
}

// newCardView returns nil for engine.EmptyCard.
func newCardView(c engine.Card) *CardView {
	if c.IsEmpty() {
		return nil
	}
	suit, rank := c.Split()
	s := suitName(suit)
	return &CardView{
		Code:  uint8(c),
		Rank:  rankName(rank),
		Suit:  s,
		Label: rankName(rank) + string(s[0]+('a'-'A')),
	}
}

// buildView projects an engine snapshot. The caller holds the session lock.
func buildView(id uuid.UUID, started bool, e *engine.Engine) View {
	snap := e.Snapshot()
	v := View{
		SessionID:   id,
		Started:     started,
		Seed:        snap.Seed,
		Columns:     make([][]CardView, engine.NumColumns),
		FreeCells:   make([]*CardView, engine.NumFreeCells),
		Foundations: make([]*CardView, engine.NumFoundations),
		Moves:       len(snap.History),
		CardsLeft:   e.CardsLeft(),
		Won:         started && e.Won(),
	}
	for col := range v.Columns {
		cards := snap.Column(col)
		v.Columns[col] = make([]CardView, len(cards))
		for i, c := range cards {
			if cv := newCardView(c); cv != nil {
				v.Columns[col][i] = *cv
			} else {
				// Only reachable from a hand-edited save.
				v.Columns[col][i] = CardView{Code: uint8(c), Rank: "?", Suit: "?", Label: "--"}
			}
		}
	}
	for i, c := range snap.FreeCells {
		v.FreeCells[i] = newCardView(c)
	}
	for i, c := range snap.Foundations {
		v.Foundations[i] = newCardView(c)
	}
	return v
}
