package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/ai"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/inventory"
	"github.com/cory-johannsen/battlesim/internal/game/roster"
)

var (
	potion = inventory.NewPotion(inventory.Potion, 20)
	super  = inventory.NewPotion(inventory.SuperPotion, 50)
	hyper  = inventory.NewPotion(inventory.HyperPotion, 200)
	revive = inventory.NewRevive()
)

func TestAttacking_PicksHighestPower(t *testing.T) {
	self := trainer("CPU", nil, mon("A", 100, move("Growl", 0, 10), move("Tackle", 40, 10), move("Slam", 80, 10), move("Hyper", 150, 0)))
	got := ai.Attacking{}.DecideAction(self, matchup(self))
	assert.Equal(t, action.Attack{MoveIndex: 2}, got)
}

func TestAttacking_RandomWhenOnlyStatusMoves(t *testing.T) {
	self := trainer("CPU", nil, mon("A", 100, move("Growl", 0, 0), move("Leer", 0, 5)))
	v := matchup(self)
	v.src = fixedSrc{val: 1}
	assert.Equal(t, action.Attack{MoveIndex: 1}, ai.Attacking{}.DecideAction(self, v))
}

func TestAttacking_StruggleWhenNoPP(t *testing.T) {
	self := trainer("CPU", nil, mon("A", 100, move("Tackle", 40, 0)))
	assert.Equal(t, action.Struggle(), ai.Attacking{}.DecideAction(self, matchup(self)))
}

func TestAttacking_SwitchesUnderTwentyPercent(t *testing.T) {
	self := trainer("CPU", nil, mon("A", 15, move("Tackle", 40, 10)), mon("B", 0), mon("C", 60), mon("D", 90))
	assert.Equal(t, action.Switch{TargetIndex: 3}, ai.Attacking{}.DecideAction(self, matchup(self)))
}

func TestConsiderUsingItem_Priority(t *testing.T) {
	// revive outranks everything
	self := trainer("CPU", []inventory.Item{hyper, revive}, mon("A", 10, move("Tackle", 40, 10)), mon("B", 0))
	assert.Equal(t, action.UseItem{ItemIndex: 1, TargetIndex: 1}, ai.Attacking{}.DecideAction(self, matchup(self)))

	// under 30%: hyper potion
	self = trainer("CPU", []inventory.Item{potion, hyper}, mon("A", 25, move("Tackle", 40, 10)))
	assert.Equal(t, action.UseItem{ItemIndex: 1, TargetIndex: 0}, ai.Attacking{}.DecideAction(self, matchup(self)))

	// under 50%: super potion before potion
	self = trainer("CPU", []inventory.Item{potion, super}, mon("A", 45, move("Tackle", 40, 10)))
	assert.Equal(t, action.UseItem{ItemIndex: 1, TargetIndex: 0}, ai.Attacking{}.DecideAction(self, matchup(self)))

	// under 30% with only a potion still uses it
	self = trainer("CPU", []inventory.Item{potion}, mon("A", 10, move("Tackle", 40, 10)))
	assert.Equal(t, action.UseItem{ItemIndex: 0, TargetIndex: 0}, ai.Attacking{}.DecideAction(self, matchup(self)))

	// healthy: no item
	self = trainer("CPU", []inventory.Item{potion}, mon("A", 80, move("Tackle", 40, 10)))
	assert.Equal(t, action.Attack{MoveIndex: 0}, ai.Attacking{}.DecideAction(self, matchup(self)))
}

func TestDefensive_PrefersProtectiveMoves(t *testing.T) {
	self := trainer("CPU", nil, mon("A", 100, move("Slam", 80, 10), move("Harden", 0, 10)))
	assert.Equal(t, action.Attack{MoveIndex: 1}, ai.Defensive{}.DecideAction(self, matchup(self)))
}

func TestDefensive_HealsUnderSeventyPercent(t *testing.T) {
	self := trainer("CPU", []inventory.Item{potion}, mon("A", 45, move("Slam", 80, 10)))
	assert.Equal(t, action.UseItem{ItemIndex: 0, TargetIndex: 0}, ai.Defensive{}.DecideAction(self, matchup(self)))
}

func TestDefensive_SwitchesUnderThirtyPercent(t *testing.T) {
	self := trainer("CPU", nil, mon("A", 20, move("Slam", 80, 10)), mon("B", 70))
	assert.Equal(t, action.Switch{TargetIndex: 1}, ai.Defensive{}.DecideAction(self, matchup(self)))
}

func TestDefensive_RevivesFirst(t *testing.T) {
	self := trainer("CPU", []inventory.Item{revive}, mon("A", 100, move("Harden", 0, 10)), mon("B", 0))
	assert.Equal(t, action.UseItem{ItemIndex: 0, TargetIndex: 1}, ai.Defensive{}.DecideAction(self, matchup(self)))
}

func TestChanging_DelegatesToAttacking(t *testing.T) {
	// every matchup rates the same, so the bench never looks 1.2x better
	self := trainer("CPU", nil, mon("A", 90, move("Tackle", 40, 10), move("Slam", 80, 10)), mon("B", 100))
	assert.Equal(t, action.Attack{MoveIndex: 1}, ai.Changing{}.DecideAction(self, matchup(self)))
}

func TestExpert_FaintedActiveSwitches(t *testing.T) {
	self := trainer("CPU", nil, mon("A", 50, move("Tackle", 40, 10)), mon("B", 80))
	self.Team.Members[0].HP = 0
	assert.Equal(t, action.Switch{TargetIndex: 1}, ai.Expert{}.DecideAction(self, matchup(self)))

	self.Team.Members[1].HP = 0
	assert.Equal(t, action.Struggle(), ai.Expert{}.DecideAction(self, matchup(self)))
}

func TestExpert_CompoundItemCondition(t *testing.T) {
	// 40% hp against a healthy opponent: heal
	self := trainer("CPU", []inventory.Item{super}, mon("A", 40, move("Tackle", 40, 10)))
	assert.Equal(t, action.UseItem{ItemIndex: 0, TargetIndex: 0}, ai.Expert{}.DecideAction(self, matchup(self)))

	// 40% hp against a weakened opponent: press the attack
	v := matchup(self)
	v.b.Active().HP = 30
	assert.Equal(t, action.Attack{MoveIndex: 0}, ai.Expert{}.DecideAction(self, v))
}

func TestExpert_BlindItemUnderTwentyPercent(t *testing.T) {
	// 15% hp with no bench: the first item is used even though a revive
	// cannot apply to a standing member.
	self := trainer("CPU", []inventory.Item{revive}, mon("A", 15, move("Tackle", 40, 10)))
	assert.Equal(t, action.UseItem{ItemIndex: 0, TargetIndex: 0}, ai.Expert{}.DecideAction(self, matchup(self)))

	// no items held: attack
	self = trainer("CPU", nil, mon("A", 15, move("Tackle", 40, 10)))
	assert.Equal(t, action.Attack{MoveIndex: 0}, ai.Expert{}.DecideAction(self, matchup(self)))
}

func TestExpert_PicksStrongestThenStruggles(t *testing.T) {
	self := trainer("CPU", nil, mon("A", 100, move("Tackle", 40, 10), move("Slam", 80, 10)))
	assert.Equal(t, action.Attack{MoveIndex: 1}, ai.Expert{}.DecideAction(self, matchup(self)))

	self = trainer("CPU", nil, mon("A", 100, move("Tackle", 40, 0)))
	assert.Equal(t, action.Struggle(), ai.Expert{}.DecideAction(self, matchup(self)))
}

func TestProperty_StrategiesNeverSwitchToFainted(t *testing.T) {
	strategies := []roster.Strategy{ai.Attacking{}, ai.Defensive{}, ai.Changing{}, ai.Expert{}}
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, roster.MaxTeamSize).Draw(rt, "n")
		members := make([]*creature.Combatant, n)
		for i := range members {
			members[i] = mon("M", rapid.IntRange(0, 100).Draw(rt, "hp"), move("Tackle", 40, rapid.IntRange(0, 3).Draw(rt, "pp")))
		}
		self := trainer("CPU", nil, members...)
		s := rapid.SampledFrom(strategies).Draw(rt, "strategy")
		v := matchup(self)
		v.src = fixedSrc{val: rapid.IntRange(0, 5).Draw(rt, "roll")}
		if sw, ok := s.DecideAction(self, v).(action.Switch); ok {
			assert.False(rt, self.Team.Members[sw.TargetIndex].Fainted())
			assert.NotEqual(rt, self.Team.Active, sw.TargetIndex)
		}
	})
}
