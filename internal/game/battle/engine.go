package battle

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/roster"
)

// ErrBattleNotFound is returned for an unknown battle handle.
var ErrBattleNotFound = errors.New("battle not found")

// Handle identifies a battle held by an Engine.
type Handle = uuid.UUID

// ParseHandle parses the string form of a Handle.
func ParseHandle(s string) (Handle, error) {
	h, err := uuid.Parse(s)
	if err != nil {
		return Handle{}, fmt.Errorf("parsing battle handle %q: %w", s, ErrBattleNotFound)
	}
	return h, nil
}

// slot serializes every operation on one battle.
type slot struct {
	mu      sync.Mutex
	b       *Battle
	touched time.Time
}

// Engine manages all running battles, keyed by handle.
// All methods are safe for concurrent use; operations on the same battle are
// serialized, operations on different battles run concurrently.
type Engine struct {
	mu      sync.RWMutex
	battles map[Handle]*slot
	opts    []Option
	logger  *zap.Logger
}

// NewEngine creates an empty Engine. opts are applied to every battle it starts.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		battles: make(map[Handle]*slot),
		opts:    append([]Option{WithLogger(logger)}, opts...),
		logger:  logger,
	}
}

// StartBattle begins a battle between t1 and t2 with t1 to move.
//
// Precondition: both trainers have a standing active combatant.
// Postcondition: Returns the new handle and the opening snapshot.
func (e *Engine) StartBattle(t1, t2 *roster.Trainer) (Handle, Snapshot, error) {
	b, err := New(t1, t2, e.opts...)
	if err != nil {
		return Handle{}, Snapshot{}, err
	}
	h := e.Adopt(b)
	e.logger.Info("battle started",
		zap.String("handle", h.String()),
		zap.String("player1", t1.Name),
		zap.String("player2", t2.Name),
	)
	return h, b.Snapshot(), nil
}

// Options returns the per-battle options the engine applies, for callers that
// rebuild a battle outside StartBattle.
func (e *Engine) Options() []Option {
	out := make([]Option, len(e.opts))
	copy(out, e.opts)
	return out
}

// Adopt registers an existing battle, such as one restored from a save.
func (e *Engine) Adopt(b *Battle) Handle {
	h := uuid.New()
	e.mu.Lock()
	e.battles[h] = &slot{b: b, touched: time.Now()}
	e.mu.Unlock()
	return h
}

func (e *Engine) get(h Handle) (*slot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.battles[h]
	if !ok {
		return nil, fmt.Errorf("%s: %w", h, ErrBattleNotFound)
	}
	return s, nil
}

// With runs fn with exclusive access to the battle behind h.
func (e *Engine) With(h Handle, fn func(*Battle) error) error {
	s, err := e.get(h)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	return fn(s.b)
}

// PerformAction carries out a human action on the battle behind h.
func (e *Engine) PerformAction(h Handle, a action.Action) (Snapshot, error) {
	var snap Snapshot
	err := e.With(h, func(b *Battle) error {
		if err := b.PerformAction(a); err != nil {
			return err
		}
		snap = b.Snapshot()
		return nil
	})
	return snap, err
}

// ExecuteCpuTurn runs one CPU turn on the battle behind h.
func (e *Engine) ExecuteCpuTurn(h Handle) (Snapshot, error) {
	var snap Snapshot
	err := e.With(h, func(b *Battle) error {
		if err := b.ExecuteCpuTurn(); err != nil {
			return err
		}
		snap = b.Snapshot()
		return nil
	})
	return snap, err
}

// Snapshot returns the current summary of the battle behind h.
func (e *Engine) Snapshot(h Handle) (Snapshot, error) {
	var snap Snapshot
	err := e.With(h, func(b *Battle) error {
		snap = b.Snapshot()
		return nil
	})
	return snap, err
}

// Winner returns the winner of the finished battle behind h, or nil for a draw.
func (e *Engine) Winner(h Handle) (*roster.Trainer, error) {
	var w *roster.Trainer
	err := e.With(h, func(b *Battle) error {
		var err error
		w, err = b.Winner()
		return err
	})
	return w, err
}

// End removes the battle behind h.
func (e *Engine) End(h Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.battles, h)
}

// Len returns the number of battles held.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.battles)
}

// Reap ends every battle not touched within idle of now and returns how many
// were removed. A battle in use is skipped.
func (e *Engine) Reap(now time.Time, idle time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for h, s := range e.battles {
		if !s.mu.TryLock() {
			continue
		}
		if now.Sub(s.touched) > idle {
			delete(e.battles, h)
			n++
		}
		s.mu.Unlock()
	}
	if n > 0 {
		e.logger.Info("reaped idle battles", zap.Int("count", n), zap.Int("remaining", len(e.battles)))
	}
	return n
}
