// Package creature models combatants and their moves: stats, damage, effect
// application and per-turn status processing.
package creature

import (
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/typechart"
)

// Env is the slice of battle state a move or effect can read and change.
// The battle owns the climate; there is no process-wide weather.
type Env interface {
	Rand() dice.Source
	Chart() *typechart.Chart
	Climate() string
	SetClimate(id string, turns int)
	// Narrate records one line of battle narrative.
	Narrate(format string, args ...any)
}
