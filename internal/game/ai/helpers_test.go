package ai_test

import (
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/inventory"
	"github.com/cory-johannsen/battlesim/internal/game/roster"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

type view struct {
	a, b *roster.Trainer
	src  dice.Source
}

func (v *view) Opponent(self *roster.Trainer) *roster.Trainer {
	if self == v.a {
		return v.b
	}
	return v.a
}
func (v *view) Climate() string   { return "" }
func (v *view) Rand() dice.Source { return v.src }

func move(name string, power, pp int) *creature.Move {
	kind := creature.KindPhysical
	if power == 0 {
		kind = creature.KindStatus
	}
	return &creature.Move{Name: name, Type: "normal", Kind: kind, Power: power, Precision: 100, MaxPP: 10, PP: pp}
}

func mon(name string, hp int, moves ...*creature.Move) *creature.Combatant {
	c, err := creature.New(name, "normal", 100, creature.Stats{Attack: 50, Defense: 50}, moves...)
	if err != nil {
		panic(err)
	}
	c.HP = hp
	return c
}

func trainer(name string, items []inventory.Item, members ...*creature.Combatant) *roster.Trainer {
	team, err := roster.NewTeam(members...)
	if err != nil {
		panic(err)
	}
	bag, err := inventory.NewBackpack(items...)
	if err != nil {
		panic(err)
	}
	return roster.NewTrainer(name, "red", team, bag, nil)
}

// matchup builds a CPU trainer and a one-member opponent at full health.
func matchup(self *roster.Trainer) *view {
	opp := trainer("Opp", nil, mon("Foe", 100, move("Tackle", 40, 10)))
	return &view{a: self, b: opp, src: fixedSrc{val: 0}}
}
