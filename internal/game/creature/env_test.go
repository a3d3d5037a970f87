package creature_test

import (
	"fmt"

	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/typechart"
)

// fixedSrc always returns val, clamped to [0, n).
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

// fakeEnv is a minimal creature.Env backed by plain fields.
type fakeEnv struct {
	src          dice.Source
	chart        *typechart.Chart
	climate      string
	climateTurns int
	log          []string
}

func newEnv(roll int) *fakeEnv {
	return &fakeEnv{src: fixedSrc{val: roll}, chart: typechart.New(nil)}
}

func (e *fakeEnv) Rand() dice.Source          { return e.src }
func (e *fakeEnv) Chart() *typechart.Chart    { return e.chart }
func (e *fakeEnv) Climate() string            { return e.climate }
func (e *fakeEnv) SetClimate(id string, n int) { e.climate, e.climateTurns = id, n }
func (e *fakeEnv) Narrate(format string, args ...any) {
	e.log = append(e.log, fmt.Sprintf(format, args...))
}

func tackle() *creature.Move {
	return &creature.Move{Name: "Tackle", Type: "normal", Kind: creature.KindPhysical, Power: 50, Precision: 100, MaxPP: 35, PP: 35}
}

func mustNew(name, typ string, hp int, base creature.Stats, moves ...*creature.Move) *creature.Combatant {
	c, err := creature.New(name, typ, hp, base, moves...)
	if err != nil {
		panic(err)
	}
	return c
}
