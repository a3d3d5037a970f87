package creature

import (
	"github.com/cory-johannsen/battlesim/internal/game/condition"
)

// Sandstorm is the climate that chips non rock/ground/steel combatants each turn.
const Sandstorm = "sandstorm"

// ProcessStartOfTurnEffects runs the per-turn upkeep for c: weather chip
// damage, status damage, re-application of stacking stat effects, effect
// ticking (a restriction ends when its ledger record expires), and clearing
// MustSwitch.
//
// Postcondition: 0 <= HP <= MaxHP; MustSwitch is false. Returns the HP lost.
func (c *Combatant) ProcessStartOfTurnEffects(env Env) int {
	lost := 0
	if env.Climate() == Sandstorm && !c.IsType("rock") && !c.IsType("ground") && !c.IsType("steel") {
		if n := c.loseHP(c.MaxHP / 16); n > 0 {
			lost += n
			env.Narrate("%s is buffeted by the sandstorm", c.Name)
		}
	}

	c.Effects.Age()
	switch c.Status {
	case StatusToxic:
		elapsed := 1
		if a := c.Effects.Status(StatusToxic); a != nil && a.Elapsed > 0 {
			elapsed = a.Elapsed
		}
		lost += c.statusDamage(max(1, c.MaxHP/16*elapsed), env)
	case StatusBurned:
		lost += c.statusDamage(c.MaxHP/8, env)
	case StatusCursed:
		lost += c.statusDamage(c.MaxHP/4, env)
	}

	for _, a := range append([]*condition.Active(nil), c.Effects.Entries...) {
		if a.Effect.Kind != condition.KindBuff && a.Effect.Kind != condition.KindDebuff {
			continue
		}
		for stat, delta := range a.Effect.Stats {
			c.ModifyStat(stat, delta)
		}
		if !a.Effect.Stackable || a.Remaining <= 1 {
			c.Effects.Remove(a)
		}
	}

	for _, a := range c.Effects.Tick() {
		if a.Effect.Kind == condition.KindStatus && a.Effect.Status == c.Status {
			c.Status = ""
			env.Narrate("%s is no longer %s", c.Name, a.Effect.Status)
		}
	}

	if c.Restriction != "" && c.Effects.Find(condition.KindRestriction) == nil {
		env.Narrate("%s is free of %s", c.Name, c.Restriction)
		c.Restriction = ""
	}

	c.MustSwitch = false
	return lost
}

func (c *Combatant) statusDamage(amount int, env Env) int {
	n := c.loseHP(amount)
	if n > 0 {
		env.Narrate("%s is hurt by its %s status", c.Name, c.Status)
	}
	return n
}
