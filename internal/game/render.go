// internal/game/render.go
package game

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jason-s-yu/freecell/engine"
)

// ErrBadLocation is returned by ParseLocation for unrecognized input.
var ErrBadLocation = errors.New("game: bad location")

// ParseLocation reads a move endpoint: a raw id 0..15, or c1..c8 for
// columns, f1..f4 for free cells and h1..h4 for foundations.
func ParseLocation(s string) (engine.Location, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadLocation)
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= engine.NumLocations {
			return 0, fmt.Errorf("%w: %d out of range 0..%d", ErrBadLocation, n, engine.NumLocations-1)
		}
		return engine.Location(n), nil
	}

	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrBadLocation, s)
	}
	switch s[0] {
	case 'c':
		if n >= 1 && n <= engine.NumColumns {
			return engine.Column(n - 1), nil
		}
	case 'f':
		if n >= 1 && n <= engine.NumFreeCells {
			return engine.FreeCell(n - 1), nil
		}
	case 'h':
		if n >= 1 && n <= engine.NumFoundations {
			return engine.Foundation(n - 1), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrBadLocation, s)
}

// Render writes the table as text: free cells and foundations first, then
// the columns with the playable card at the bottom of each.
func (v View) Render(w io.Writer) error {
	var b strings.Builder

	if !v.Started {
		b.WriteString("No game in progress.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Game #%d  moves %d  cards left %d\n\n", v.Seed, v.Moves, v.CardsLeft)
	b.WriteString(" f1  f2  f3  f4    h1  h2  h3  h4\n")
	for _, c := range v.FreeCells {
		b.WriteString(cellLabel(c))
	}
	b.WriteString("  ")
	for _, c := range v.Foundations {
		b.WriteString(cellLabel(c))
	}
	b.WriteString("\n\n c1  c2  c3  c4  c5  c6  c7  c8\n")

	depth := 0
	for _, col := range v.Columns {
		depth = max(depth, len(col))
	}
	for row := 0; row < depth; row++ {
		var line strings.Builder
		for _, col := range v.Columns {
			if row < len(col) {
				fmt.Fprintf(&line, " %-2s ", col[row].Label)
			} else {
				line.WriteString("    ")
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	if v.Won {
		b.WriteString("\nYou Win\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func cellLabel(c *CardView) string {
	if c == nil {
		return "[--]"
	}
	return "[" + c.Label + "]"
}

// Render writes the current table to w.
func (s *Session) Render(w io.Writer) error {
	return s.View().Render(w)
}
