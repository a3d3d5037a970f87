// Package ai holds the decision strategies that drive CPU trainers.
package ai

import (
	"strings"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/inventory"
	"github.com/cory-johannsen/battlesim/internal/game/roster"
)

// randomMoveTries bounds the random move search before falling back to Struggle.
const randomMoveTries = 10

// defensiveKeywords mark moves the Defensive strategy prefers.
var defensiveKeywords = []string{"Defense", "Protect", "Barrier", "Harden"}

// calculateEffectiveness rates how well candidate fares against opponent.
// Strategies do not consult the type chart; every matchup rates 1.0.
func calculateEffectiveness(candidate, opponent *creature.Combatant) float64 {
	return 1.0
}

// opponentActive returns the active combatant facing self, or nil.
func opponentActive(self *roster.Trainer, view roster.View) *creature.Combatant {
	opp := view.Opponent(self)
	if opp == nil {
		return nil
	}
	return opp.Active()
}

// reviveCheck uses a held Revive on the first fainted teammate.
func reviveCheck(self *roster.Trainer) action.Action {
	idx := self.Items.IndexOf(inventory.Revive)
	if idx < 0 {
		return nil
	}
	for i, m := range self.Team.Members {
		if m.Fainted() {
			return action.UseItem{ItemIndex: idx, TargetIndex: i}
		}
	}
	return nil
}

// considerUsingItem returns an item action in priority order: Revive a
// fainted teammate; Hyper Potion under 30% HP; Super Potion or Potion under
// 50% HP. It returns nil when no item applies.
func considerUsingItem(self *roster.Trainer) action.Action {
	if a := reviveCheck(self); a != nil {
		return a
	}
	active := self.Active()
	if active == nil || active.Fainted() {
		return nil
	}
	hp := active.HPFraction()
	if hp < 0.3 {
		if idx := self.Items.IndexOf(inventory.HyperPotion); idx >= 0 {
			return action.UseItem{ItemIndex: idx, TargetIndex: self.Team.Active}
		}
	}
	if hp < 0.5 {
		for _, name := range []string{inventory.SuperPotion, inventory.Potion} {
			if idx := self.Items.IndexOf(name); idx >= 0 {
				return action.UseItem{ItemIndex: idx, TargetIndex: self.Team.Active}
			}
		}
	}
	return nil
}

// selectPokemonToSwitch returns the standing bench member maximizing
// effectiveness × HP fraction, or -1 when there is none.
func selectPokemonToSwitch(self *roster.Trainer, view roster.View) int {
	opp := opponentActive(self, view)
	best, bestScore := -1, -1.0
	for i, m := range self.Team.Members {
		if i == self.Team.Active || m.Fainted() {
			continue
		}
		score := calculateEffectiveness(m, opp) * m.HPFraction()
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// trySwitch returns a Switch to the best bench member, or nil.
func trySwitch(self *roster.Trainer, view roster.View) action.Action {
	if idx := selectPokemonToSwitch(self, view); idx >= 0 {
		return action.Switch{TargetIndex: idx}
	}
	return nil
}

// highestPowerMove returns the index of the usable move with the greatest
// positive power, or -1.
func highestPowerMove(c *creature.Combatant) int {
	best, bestPower := -1, 0
	for i, m := range c.Moves {
		if m.PP > 0 && m.Power > bestPower {
			best, bestPower = i, m.Power
		}
	}
	return best
}

// randomUsableMove draws up to randomMoveTries move indices and returns the
// first with PP left, or -1.
func randomUsableMove(c *creature.Combatant, src dice.Source) int {
	if len(c.Moves) == 0 {
		return -1
	}
	for i := 0; i < randomMoveTries; i++ {
		idx := src.Intn(len(c.Moves))
		if c.Moves[idx].PP > 0 {
			return idx
		}
	}
	return -1
}

// defensiveMove returns the first usable move whose name carries a defensive keyword, or -1.
func defensiveMove(c *creature.Combatant) int {
	for i, m := range c.Moves {
		if m.PP <= 0 {
			continue
		}
		for _, kw := range defensiveKeywords {
			if strings.Contains(m.Name, kw) {
				return i
			}
		}
	}
	return -1
}
