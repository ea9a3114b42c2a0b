// internal/game/session.go
package game

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/freecell/engine"
	"github.com/jason-s-yu/freecell/internal/slots"
)

var (
	// ErrBadSeed is returned for seeds outside [0, engine.MaxSeed].
	ErrBadSeed = errors.New("game: bad seed")
	// ErrNoGame is returned when an operation needs a dealt game.
	ErrNoGame = errors.New("game: no game in progress")
)

// MoveResult reports the outcome of a user move and the auto-collections
// that followed it.
type MoveResult struct {
	Moved bool            `json:"moved"`
	Auto  []engine.Record `json:"auto,omitempty"`
	Won   bool            `json:"won"`
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger session entries are derived from.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithAutoplay toggles auto-collection after each move.
func WithAutoplay(on bool) Option {
	return func(s *Session) { s.autoplay = on }
}

// WithIOTimeout bounds each save-slot operation.
func WithIOTimeout(d time.Duration) Option {
	return func(s *Session) { s.ioTimeout = d }
}

// Session drives one FreeCell game on behalf of a single player: dealing,
// moves with auto-collection, undo, and saving to slots.
type Session struct {
	ID uuid.UUID // Unique identifier for this session, used in logs.

	mu      sync.Mutex // Protects eng and started.
	eng     *engine.Engine
	started bool // A game has been dealt or loaded.

	store     slots.Store
	logger    *logrus.Logger
	log       *logrus.Entry
	autoplay  bool
	ioTimeout time.Duration
}

// NewSession returns a session with no game dealt. store may be nil, in
// which case Save and Load fail.
func NewSession(store slots.Store, opts ...Option) *Session {
	s := &Session{
		ID:        uuid.New(),
		eng:       engine.New(),
		store:     store,
		logger:    logrus.StandardLogger(),
		autoplay:  true,
		ioTimeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.logger.WithField("session", s.ID.String())
	return s
}

// RandomSeed draws a deal seed from four random bytes, big-endian.
func RandomSeed() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("game: random seed: %w", err)
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// NewGame deals the game numbered seed.
func (s *Session) NewGame(seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.eng.Init(seed); err != nil {
		s.log.WithField("seed", seed).Warn("Rejected seed")
		return fmt.Errorf("%w %d: %w", ErrBadSeed, seed, err)
	}
	s.started = true
	s.log = s.logger.WithFields(logrus.Fields{"session": s.ID.String(), "seed": s.eng.Seed()})
	s.log.Info("Dealt new game")
	return nil
}

// NewRandomGame deals a game from a random seed and returns the seed.
func (s *Session) NewRandomGame() (uint32, error) {
	seed, err := RandomSeed()
	if err != nil {
		return 0, err
	}
	if err := s.NewGame(int64(seed)); err != nil {
		return 0, err
	}
	return seed, nil
}

// Started reports whether a game has been dealt or loaded.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Seed returns the seed of the current game.
func (s *Session) Seed() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Seed()
}

// Won reports whether the current game is finished.
func (s *Session) Won() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && s.eng.Won()
}

// Move attempts a move and then, with autoplay on, collects every card
// that is safe to send to a foundation. Auto-collection runs even when the
// move itself was refused, so a freshly loaded position settles on the
// first attempt. Out-of-range locations are refused like illegal moves.
func (s *Session) Move(from, to engine.Location) MoveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return MoveResult{}
	}
	if !from.Valid() || !to.Valid() {
		s.log.WithFields(logrus.Fields{"from": uint8(from), "to": uint8(to)}).Warn("Move outside the table")
		return MoveResult{}
	}

	var res MoveResult
	res.Moved = s.eng.Move(from, to)
	s.log.WithFields(logrus.Fields{
		"from":  from.String(),
		"to":    to.String(),
		"moved": res.Moved,
	}).Debug("Move")

	if s.autoplay {
		res.Auto = s.eng.AutoCollect()
		for _, r := range res.Auto {
			s.log.WithFields(logrus.Fields{"from": r.From.String(), "to": r.To.String()}).Debug("Auto-collected")
		}
	}

	res.Won = s.eng.Won()
	if res.Won && (res.Moved || len(res.Auto) > 0) {
		s.log.WithField("moves", s.eng.HistoryLen()).Info("Game won")
	}
	return res
}

// Undo reverses the most recent history record. Each auto-collection is a
// record of its own.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return false
	}
	ok := s.eng.Undo()
	if ok {
		s.log.WithField("moves", s.eng.HistoryLen()).Debug("Undo")
	}
	return ok
}

// Save writes the current game into slot.
func (s *Session) Save(ctx context.Context, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNoGame
	}
	if s.store == nil {
		return fmt.Errorf("game: save slot %d: no slot store configured", slot)
	}
	blob, err := s.eng.MarshalBinary()
	if err != nil {
		return fmt.Errorf("game: encode: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.ioTimeout)
	defer cancel()
	if err := s.store.Put(ctx, slot, blob); err != nil {
		s.log.WithError(err).WithField("slot", slot).Error("Save failed")
		return err
	}
	s.log.WithFields(logrus.Fields{"slot": slot, "bytes": len(blob)}).Info("Saved game")
	return nil
}

// Load replaces the current game with the one saved in slot. The current
// game is kept if the slot is empty or its blob cannot be decoded.
func (s *Session) Load(ctx context.Context, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("game: load slot %d: no slot store configured", slot)
	}

	ctx, cancel := context.WithTimeout(ctx, s.ioTimeout)
	defer cancel()
	blob, err := s.store.Get(ctx, slot)
	if err != nil {
		s.log.WithError(err).WithField("slot", slot).Warn("Load failed")
		return err
	}

	next := engine.New()
	if err := next.UnmarshalBinary(blob); err != nil {
		s.log.WithError(err).WithField("slot", slot).Warn("Load failed")
		return fmt.Errorf("game: decode slot %d: %w", slot, err)
	}

	s.eng = next
	s.started = true
	s.log = s.logger.WithFields(logrus.Fields{"session": s.ID.String(), "seed": next.Seed()})
	s.log.WithFields(logrus.Fields{"slot": slot, "moves": next.HistoryLen()}).Info("Loaded game")
	return nil
}

// DeleteSlot clears a save slot.
func (s *Session) DeleteSlot(ctx context.Context, slot int) error {
	if s.store == nil {
		return fmt.Errorf("game: delete slot %d: no slot store configured", slot)
	}
	ctx, cancel := context.WithTimeout(ctx, s.ioTimeout)
	defer cancel()
	if err := s.store.Delete(ctx, slot); err != nil {
		return err
	}
	s.log.WithField("slot", slot).Info("Deleted save slot")
	return nil
}

// Slots lists the occupied save slots.
func (s *Session) Slots(ctx context.Context) ([]slots.Info, error) {
	if s.store == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.ioTimeout)
	defer cancel()
	return s.store.List(ctx)
}

// View returns a read-only projection of the current game.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildView(s.ID, s.started, s.eng)
}
