package engine

// ---------------------------------------------------------------------------
// Linear congruential generator
// ---------------------------------------------------------------------------
//
// The multiplier, increment, modulus and the swap order in shuffle are part
// of the save-file contract: the same seed must always deal the same table.

const (
	lcgMultiplier uint64 = 1103515245
	lcgIncrement  uint64 = 12345
	lcgMask       uint64 = 0x7FFFFFFF // mod 2^31
)

// MaxSeed is the largest seed accepted by Init.
const MaxSeed = 0xFFFFFFFF

// LCG is the deal generator state.
type LCG uint32

// Next advances the generator and returns a value in [0, 2^31).
func (x *LCG) Next() uint32 {
	v := (lcgMultiplier*uint64(*x) + lcgIncrement) & lcgMask
	*x = LCG(v)
	return uint32(v)
}

// Intn returns floor(Next()/2^31 * n).
func (x *LCG) Intn(n int) int {
	return int((uint64(x.Next()) * uint64(n)) >> 31)
}

// shuffle swaps table[i] with table[j] for i = 0..51, drawing j from the
// generator seeded with seed.
func shuffle(table *[DeckSize]Card, seed uint32) {
	rng := LCG(seed)
	for i := 0; i < DeckSize; i++ {
		j := rng.Intn(DeckSize)
		table[i], table[j] = table[j], table[i]
	}
}
