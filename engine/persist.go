package engine

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Save layout, big-endian:
//
//	seed         4
//	table       52
//	tails        8
//	free cells   4
//	foundations  4
//	history len  2
//	records      2*len
const (
	headerSize = 4 + DeckSize + NumColumns + NumFreeCells + NumFoundations + 2
)

// ErrCorruptSave is returned by Load when the column tails cannot describe
// a table of DeckSize slots or a history record describes no possible move.
var ErrCorruptSave = errors.New("engine: corrupt save")

// EncodedLen returns the size of the blob Save would write.
func (e *Engine) EncodedLen() int { return headerSize + e.history.Len()*RecordSize }

// Save writes the full engine state to w.
func (e *Engine) Save(w io.Writer) error {
	buf := make([]byte, 0, e.EncodedLen())
	buf = binary.BigEndian.AppendUint32(buf, e.seed)
	for _, c := range e.table {
		buf = append(buf, byte(c))
	}
	buf = append(buf, e.tails[:]...)
	for _, c := range e.freeCells {
		buf = append(buf, byte(c))
	}
	for _, c := range e.foundations {
		buf = append(buf, byte(c))
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(e.history.Len()))
	buf = append(buf, e.history.packed()...)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("engine: save: %w", err)
	}
	return nil
}

// Load replaces the engine state with one read from r. The engine changes
// only if every field was read; a short stream yields an error wrapping
// io.ErrUnexpectedEOF. Cross-field consistency (for example that the table
// holds 52 distinct cards) is not checked.
func (e *Engine) Load(r io.Reader) error {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return fmt.Errorf("engine: load header: %w", unexpected(err))
	}

	next := New()
	off := 0
	next.seed = binary.BigEndian.Uint32(hdr[off:])
	off += 4
	for i := range next.table {
		next.table[i] = Card(hdr[off+i])
	}
	off += DeckSize
	copy(next.tails[:], hdr[off:off+NumColumns])
	off += NumColumns
	for i := 0; i < NumFreeCells; i++ {
		next.freeCells[i] = Card(hdr[off+i])
	}
	off += NumFreeCells
	for i := 0; i < NumFoundations; i++ {
		next.foundations[i] = Card(hdr[off+i])
	}
	off += NumFoundations
	n := binary.BigEndian.Uint16(hdr[off:])

	prev := uint8(0)
	for _, t := range next.tails {
		if t < prev || t > DeckSize {
			return fmt.Errorf("%w: column tails out of order", ErrCorruptSave)
		}
		prev = t
	}

	raw := make([]byte, int(n)*RecordSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return fmt.Errorf("engine: load history (%d records): %w", n, unexpected(err))
	}
	for i := 0; i < int(n); i++ {
		r := UnpackRecord([RecordSize]byte{raw[2*i], raw[2*i+1]})
		if !r.wellFormed() {
			return fmt.Errorf("%w: history record %d (%s to %s, %d cards)", ErrCorruptSave, i, r.From, r.To, r.Size)
		}
	}
	next.history.set(n, raw)

	*e = *next
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (e *Engine) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(e.EncodedLen())
	if err := e.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Bytes past the
// encoded history are ignored.
func (e *Engine) UnmarshalBinary(data []byte) error {
	return e.Load(bytes.NewReader(data))
}

// unexpected maps a clean EOF at the start of a field to io.ErrUnexpectedEOF,
// since every field is mandatory.
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
