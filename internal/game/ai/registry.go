package ai

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/game/roster"
)

// Registry indexes Strategies by name.
//
// Invariant: each name is registered at most once.
type Registry struct {
	strategies map[string]roster.Strategy
}

// NewRegistry returns a Registry holding the four built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]roster.Strategy)}
	for _, s := range []roster.Strategy{Attacking{}, Defensive{}, Changing{}, Expert{}} {
		r.strategies[s.Name()] = s
	}
	return r
}

// Register stores s under s.Name().
//
// Precondition: s must not be nil.
// Postcondition: returns error on name collision.
func (r *Registry) Register(s roster.Strategy) error {
	if _, exists := r.strategies[s.Name()]; exists {
		return fmt.Errorf("ai.Registry: strategy %q already registered", s.Name())
	}
	r.strategies[s.Name()] = s
	return nil
}

// RegisterScripts registers a Scripted strategy for every script name.
func (r *Registry) RegisterScripts(caller ScriptCaller, logger *zap.Logger, scripts ...string) error {
	for _, name := range scripts {
		if err := r.Register(NewScripted(name, caller, logger)); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the Strategy for name, or false if not registered.
func (r *Registry) Lookup(name string) (roster.Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.strategies))
	for n := range r.strategies {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
