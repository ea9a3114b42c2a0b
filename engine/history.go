package engine

// ---------------------------------------------------------------------------
// Move log
// ---------------------------------------------------------------------------
//
// Each record packs (from, to, size) into two bytes:
//
//	byte 0: size<<4 | from
//	byte 1: size<<4 | to
//
// The size nibble is stored twice; only byte 0's copy is read back.

const (
	// RecordSize is the packed width of one history record.
	RecordSize = 2
	// MaxHistory is the largest record count the 2-byte length prefix holds.
	MaxHistory = 0xFFFF
	// MaxRunSize is the largest run a record can describe.
	MaxRunSize = 0x0F
)

// Record is one executed move.
type Record struct {
	From Location
	To   Location
	Size uint8
}

// wellFormed reports whether some legal move could have produced r: at
// least one card, distinct endpoints, and a single card unless both ends
// are columns. Foundations are never a source.
func (r Record) wellFormed() bool {
	if r.Size == 0 || r.From == r.To || r.From.IsFoundation() {
		return false
	}
	return r.Size == 1 || r.From.IsColumn() && r.To.IsColumn()
}

// Pack encodes r into its two-byte form.
func (r Record) Pack() [RecordSize]byte {
	size := (r.Size & 0x0F) << 4
	return [RecordSize]byte{size | uint8(r.From)&0x0F, size | uint8(r.To)&0x0F}
}

// UnpackRecord decodes a two-byte history record.
func UnpackRecord(b [RecordSize]byte) Record {
	return Record{
		From: Location(b[0] & 0x0F),
		To:   Location(b[1] & 0x0F),
		Size: (b[0] >> 4) & 0x0F,
	}
}

// History is an append-only move log. Undo only lowers the count; the
// physical bytes stay until the next recorded move overwrites them.
type History struct {
	n   uint16
	buf []byte
}

// Len returns the number of live records.
func (h *History) Len() int { return int(h.n) }

// Full reports whether another record would overflow the length prefix.
func (h *History) Full() bool { return h.n == MaxHistory }

// Reset drops every record.
func (h *History) Reset() {
	h.n = 0
	h.buf = h.buf[:0]
}

// Append writes r at the current write position and bumps the count.
func (h *History) Append(r Record) {
	if h.Full() {
		violate("History.Append", "history holds %d records", MaxHistory)
	}
	off := int(h.n) * RecordSize
	p := r.Pack()
	if off+RecordSize > len(h.buf) {
		h.buf = append(h.buf[:off], p[:]...)
	} else {
		copy(h.buf[off:], p[:])
	}
	h.n++
}

// Last returns the most recent live record.
func (h *History) Last() (Record, bool) {
	if h.n == 0 {
		return Record{}, false
	}
	return h.At(int(h.n) - 1), true
}

// At returns live record i.
func (h *History) At(i int) Record {
	if i < 0 || i >= int(h.n) {
		violate("History.At", "record %d out of range", i)
	}
	off := i * RecordSize
	return UnpackRecord([RecordSize]byte{h.buf[off], h.buf[off+1]})
}

// drop lowers the count by one without erasing bytes.
func (h *History) drop() {
	if h.n > 0 {
		h.n--
	}
}

// Records returns a copy of the live records.
func (h *History) Records() []Record {
	out := make([]Record, h.n)
	for i := range out {
		out[i] = h.At(i)
	}
	return out
}

// packed returns the live records in wire form.
func (h *History) packed() []byte {
	return h.buf[:int(h.n)*RecordSize]
}

// set replaces the log with n records taken from raw.
func (h *History) set(n uint16, raw []byte) {
	h.n = n
	h.buf = append(h.buf[:0], raw[:int(n)*RecordSize]...)
}

// record appends a move to the log.
func (e *Engine) record(from, to Location, size int) {
	e.history.Append(Record{From: from, To: to, Size: uint8(size)})
}

// HistoryLen returns the number of undoable moves.
func (e *Engine) HistoryLen() int { return e.history.Len() }

// History returns a copy of the live move records, oldest first.
func (e *Engine) History() []Record { return e.history.Records() }

// Undo reverses the most recent move. It reports false when the log is
// empty or the last record cannot be reversed on the current table, which
// only happens after loading a hand-edited save.
func (e *Engine) Undo() bool {
	r, ok := e.history.Last()
	if !ok || !e.feasible(r.To, r.From, int(r.Size)) {
		return false
	}
	e.execute(r.To, r.From, int(r.Size))
	e.history.drop()
	return true
}
