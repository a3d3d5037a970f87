package ai

import (
	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/roster"
)

// Built-in strategy names.
const (
	NameAttacking = "attacking"
	NameDefensive = "defensive"
	NameChanging  = "changing"
	NameExpert    = "expert"
)

// Attacking favours raw damage: heal when low, bail out under 20% HP,
// otherwise hit as hard as possible.
type Attacking struct{}

func (Attacking) Name() string { return NameAttacking }

// DecideAction implements roster.Strategy.
func (Attacking) DecideAction(self *roster.Trainer, view roster.View) action.Action {
	if a := considerUsingItem(self); a != nil {
		return a
	}
	active := self.Active()
	if active == nil {
		return action.Struggle()
	}
	if active.HPFraction() < 0.2 {
		if a := trySwitch(self, view); a != nil {
			return a
		}
	}
	if idx := highestPowerMove(active); idx >= 0 {
		return action.Attack{MoveIndex: idx}
	}
	return randomOrStruggle(active, view.Rand())
}

func randomOrStruggle(c *creature.Combatant, src dice.Source) action.Action {
	if idx := randomUsableMove(c, src); idx >= 0 {
		return action.Attack{MoveIndex: idx}
	}
	return action.Struggle()
}

// Defensive keeps its team alive: revive first, heal early, switch out when
// hurt, and prefer protective moves.
type Defensive struct{}

func (Defensive) Name() string { return NameDefensive }

// DecideAction implements roster.Strategy.
func (Defensive) DecideAction(self *roster.Trainer, view roster.View) action.Action {
	if a := reviveCheck(self); a != nil {
		return a
	}
	active := self.Active()
	if active == nil {
		return action.Struggle()
	}
	hp := active.HPFraction()
	if hp < 0.7 {
		if a := considerUsingItem(self); a != nil {
			return a
		}
	}
	if hp < 0.3 {
		if a := trySwitch(self, view); a != nil {
			return a
		}
	}
	if idx := defensiveMove(active); idx >= 0 {
		return action.Attack{MoveIndex: idx}
	}
	return randomOrStruggle(active, view.Rand())
}

// Changing looks for a better matchup on the bench before attacking.
type Changing struct{}

func (Changing) Name() string { return NameChanging }

// switchAdvantage is how much better the bench must rate before Changing switches.
const switchAdvantage = 1.2

// DecideAction implements roster.Strategy.
func (Changing) DecideAction(self *roster.Trainer, view roster.View) action.Action {
	active := self.Active()
	if active == nil {
		return action.Struggle()
	}
	if active.HPFraction() < 0.5 {
		if a := considerUsingItem(self); a != nil {
			return a
		}
	}
	opp := opponentActive(self, view)
	current := calculateEffectiveness(active, opp)
	best, bestEff := -1, 0.0
	for i, m := range self.Team.Members {
		if i == self.Team.Active || m.Fainted() {
			continue
		}
		if eff := calculateEffectiveness(m, opp); eff > bestEff {
			best, bestEff = i, eff
		}
	}
	if best >= 0 && bestEff > current*switchAdvantage {
		return action.Switch{TargetIndex: best}
	}
	return Attacking{}.DecideAction(self, view)
}

// Expert weighs its own and the opponent's condition before committing.
type Expert struct{}

func (Expert) Name() string { return NameExpert }

// DecideAction implements roster.Strategy.
func (Expert) DecideAction(self *roster.Trainer, view roster.View) action.Action {
	if a := reviveCheck(self); a != nil {
		return a
	}
	active := self.Active()
	if active == nil || active.Fainted() {
		if a := trySwitch(self, view); a != nil {
			return a
		}
		return action.Struggle()
	}

	hp := active.HPFraction()
	oppHP := 1.0
	if opp := opponentActive(self, view); opp != nil {
		oppHP = opp.HPFraction()
	}
	if (hp < 0.5 && oppHP >= 0.5) || hp < 0.25 {
		if a := considerUsingItem(self); a != nil {
			return a
		}
	}
	if hp < 0.2 {
		if a := trySwitch(self, view); a != nil {
			return a
		}
		if a := blindItem(self); a != nil {
			return a
		}
	}

	opp := opponentActive(self, view)
	best, bestScore := -1, -1.0
	for i, m := range active.Moves {
		if m.PP <= 0 {
			continue
		}
		if score := calculateEffectiveness(active, opp) * float64(m.Power); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return action.Attack{MoveIndex: best}
	}
	if a := trySwitch(self, view); a != nil {
		return a
	}
	return action.Struggle()
}

// blindItem uses the first held item on the active member without checking
// whether it applies. The engine rejects an unusable item and the CPU turn
// falls back to Struggle.
func blindItem(self *roster.Trainer) action.Action {
	if self.Items.Len() == 0 {
		return nil
	}
	return action.UseItem{ItemIndex: 0, TargetIndex: self.Team.Active}
}
