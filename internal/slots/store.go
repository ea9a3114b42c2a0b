// Package slots persists serialized games in numbered save slots.
package slots

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSlot is returned for slot numbers outside 1..Count.
	ErrInvalidSlot = errors.New("slots: invalid slot")
	// ErrSlotEmpty is returned by Get and Delete when nothing is saved in the slot.
	ErrSlotEmpty = errors.New("slots: slot is empty")
	// ErrUnknownBackend is returned by NewFromConfig for an unsupported backend name.
	ErrUnknownBackend = errors.New("slots: unknown backend")
)

// Info describes one occupied slot.
type Info struct {
	Slot    int       `json:"slot"`
	Size    int       `json:"size"`
	SavedAt time.Time `json:"savedAt"`
}

// Store holds at most one save blob per slot. Blobs are opaque to the store.
type Store interface {
	// Put writes blob into slot, replacing any previous save.
	Put(ctx context.Context, slot int, blob []byte) error
	// Get returns the blob saved in slot.
	Get(ctx context.Context, slot int) ([]byte, error)
	// List returns the occupied slots in ascending order.
	List(ctx context.Context) ([]Info, error)
	// Delete clears slot.
	Delete(ctx context.Context, slot int) error
	// Close releases the backend's resources.
	Close() error
}

// Range is the set of valid slot numbers, 1..Count.
type Range struct {
	Count int
}

// Check returns ErrInvalidSlot, annotated with the slot, when slot is out of range.
func (r Range) Check(slot int) error {
	if slot < 1 || slot > r.Count {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidSlot, slot, r.Count)
	}
	return nil
}
