package engine

import "fmt"

// Suit constants. Suits 0 and 2 share a color group, as do 1 and 3.
const (
	SuitHearts   uint8 = 0
	SuitClubs    uint8 = 1
	SuitDiamonds uint8 = 2
	SuitSpades   uint8 = 3
)

// Rank constants. Ace is rank 0.
const (
	RankAce   uint8 = 0
	RankTwo   uint8 = 1
	RankThree uint8 = 2
	RankFour  uint8 = 3
	RankFive  uint8 = 4
	RankSix   uint8 = 5
	RankSeven uint8 = 6
	RankEight uint8 = 7
	RankNine  uint8 = 8
	RankTen   uint8 = 9
	RankJack  uint8 = 10
	RankQueen uint8 = 11
	RankKing  uint8 = 12
)

const (
	NumSuits = 4
	NumRanks = 13
	DeckSize = NumSuits * NumRanks
)

// Card is a packed uint8: upper 6 bits = rank, lower 2 bits = suit.
type Card uint8

// EmptyCard marks an empty slot. It is never a valid card encoding.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((rank << 2) | (suit & 0b11))
}

// Suit returns the suit bits (lower 2).
func (c Card) Suit() uint8 { return uint8(c) & 0b11 }

// Rank returns the rank bits (upper 6).
func (c Card) Rank() uint8 { return (uint8(c) >> 2) & 0b111111 }

// Split decodes the card into its suit and rank.
func (c Card) Split() (suit, rank uint8) { return c.Suit(), c.Rank() }

// Color returns the color group of the card's suit.
func (c Card) Color() uint8 { return uint8(c) & 0b1 }

// IsEmpty reports whether c is the empty sentinel.
func (c Card) IsEmpty() bool { return c == EmptyCard }

// Stacks reports whether c may be placed on top of under in a column:
// opposite color group and exactly one rank lower.
func (c Card) Stacks(under Card) bool {
	return (c.Color()^under.Color()) == 1 && c.Rank()+1 == under.Rank()
}

// Follows reports whether c continues a foundation whose top card is top:
// same suit and exactly one rank higher.
func (c Card) Follows(top Card) bool {
	return c.Suit() == top.Suit() && c.Rank() == top.Rank()+1
}

var rankNames = [NumRanks]byte{'A', '2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K'}

// String renders the card as rank letter followed by suit digit, e.g. "Q3".
func (c Card) String() string {
	if c == EmptyCard {
		return "--"
	}
	r := c.Rank()
	if r >= NumRanks {
		return fmt.Sprintf("?%d", c.Suit())
	}
	return fmt.Sprintf("%c%d", rankNames[r], c.Suit())
}

// ---------------------------------------------------------------------------
// Locations
// ---------------------------------------------------------------------------

const (
	NumColumns     = 8
	NumFreeCells   = 4
	NumFoundations = 4
	NumLocations   = NumColumns + NumFreeCells + NumFoundations
)

// Location addresses every move endpoint with a single id:
// 0..7 columns, 8..11 free cells, 12..15 foundations.
type Location uint8

const (
	FirstColumn     Location = 0
	FirstFreeCell   Location = NumColumns
	FirstFoundation Location = NumColumns + NumFreeCells
)

// Column returns the location id of column i.
func Column(i int) Location { return FirstColumn + Location(i) }

// FreeCell returns the location id of free cell i.
func FreeCell(i int) Location { return FirstFreeCell + Location(i) }

// Foundation returns the location id of foundation i.
func Foundation(i int) Location { return FirstFoundation + Location(i) }

func (l Location) Valid() bool        { return l < NumLocations }
func (l Location) IsColumn() bool     { return l < FirstFreeCell }
func (l Location) IsFreeCell() bool   { return l >= FirstFreeCell && l < FirstFoundation }
func (l Location) IsFoundation() bool { return l >= FirstFoundation && l < NumLocations }

// Index returns the position of l within its own region.
func (l Location) Index() int {
	switch {
	case l.IsColumn():
		return int(l)
	case l.IsFreeCell():
		return int(l - FirstFreeCell)
	default:
		return int(l - FirstFoundation)
	}
}

func (l Location) String() string {
	switch {
	case l.IsColumn():
		return fmt.Sprintf("c%d", l.Index()+1)
	case l.IsFreeCell():
		return fmt.Sprintf("f%d", l.Index()+1)
	case l.IsFoundation():
		return fmt.Sprintf("h%d", l.Index()+1)
	}
	return fmt.Sprintf("loc(%d)", uint8(l))
}
