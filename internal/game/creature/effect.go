package creature

import (
	"github.com/cory-johannsen/battlesim/internal/game/condition"
)

// Status tags that deal damage at the start of the affected side's turn.
const (
	StatusToxic  = "toxic"
	StatusBurned = "burned"
	StatusCursed = "cursed"
)

// ApplyEffect applies e with user as the move's user and opponent as its target.
//
// Postcondition: BUFF/DEBUFF add deltas to the affected boosts; STATUS sets the
// status tag and records a ticking entry when its duration is positive; WEATHER
// sets the climate; RESET_STATS clears both sides' boosts; RESTRICTION sets the
// affected side's restriction and records it on the ledger, replacing any
// earlier restriction; FORCE_SWITCH raises MustSwitch.
func ApplyEffect(e condition.Effect, user, opponent *Combatant, env Env) {
	affected := opponent
	if e.Target == condition.TargetUser {
		affected = user
	}
	if affected == nil {
		return
	}
	switch e.Kind {
	case condition.KindBuff, condition.KindDebuff:
		for stat, delta := range e.Stats {
			affected.ModifyStat(stat, delta)
		}
		if e.Tracked() {
			affected.Effects.Add(e)
		}
		env.Narrate("%s's stats changed", affected.Name)
	case condition.KindStatus:
		affected.Status = e.Status
		if e.Tracked() {
			affected.Effects.Add(e)
		}
		env.Narrate("%s is now %s", affected.Name, e.Status)
	case condition.KindWeather:
		env.SetClimate(e.Climate, e.Duration)
		env.Narrate("the weather turned to %s", e.Climate)
	case condition.KindResetStats:
		if user != nil {
			user.ResetBoosts()
		}
		if opponent != nil {
			opponent.ResetBoosts()
		}
		env.Narrate("all stat changes were eliminated")
	case condition.KindRestriction:
		affected.Effects.RemoveKind(condition.KindRestriction)
		affected.Restriction = e.Restriction
		if e.Tracked() {
			affected.Effects.Add(e)
		}
		env.Narrate("%s is under %s", affected.Name, e.Restriction)
	case condition.KindForceSwitch:
		affected.MustSwitch = true
		env.Narrate("%s must switch out", affected.Name)
	}
}
