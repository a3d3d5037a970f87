package battle_test

import (
	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/battle"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/inventory"
	"github.com/cory-johannsen/battlesim/internal/game/roster"
)

// fixedSrc always returns val, clamped to [0, n).
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func strike(power int) *creature.Move {
	return &creature.Move{Name: "Strike", Type: "normal", Kind: creature.KindPhysical, Power: power, Precision: 100, MaxPP: 30, PP: 30}
}

func mon(name string, hp int, base creature.Stats, moves ...*creature.Move) *creature.Combatant {
	c, err := creature.New(name, "normal", hp, base, moves...)
	if err != nil {
		panic(err)
	}
	return c
}

func side(name string, strategy roster.Strategy, items []inventory.Item, members ...*creature.Combatant) *roster.Trainer {
	team, err := roster.NewTeam(members...)
	if err != nil {
		panic(err)
	}
	bag, err := inventory.NewBackpack(items...)
	if err != nil {
		panic(err)
	}
	return roster.NewTrainer(name, "", team, bag, strategy)
}

// duel returns the canonical one-on-one: A (atk 100/def 50) against B (atk 50/def 100).
func duel(s1, s2 roster.Strategy) (*roster.Trainer, *roster.Trainer) {
	a := side("Red", s1, nil, mon("A", 100, creature.Stats{Attack: 100, Defense: 50}, strike(50)))
	b := side("Blue", s2, nil, mon("B", 100, creature.Stats{Attack: 50, Defense: 100}, strike(50)))
	return a, b
}

func newBattle(t1, t2 *roster.Trainer, opts ...battle.Option) *battle.Battle {
	b, err := battle.New(t1, t2, append([]battle.Option{battle.WithRand(fixedSrc{val: 0})}, opts...)...)
	if err != nil {
		panic(err)
	}
	return b
}

// scriptedStrategy replays a fixed list of actions, then Struggles.
type scriptedStrategy struct {
	actions []action.Action
}

func (s *scriptedStrategy) Name() string { return "replay" }
func (s *scriptedStrategy) DecideAction(*roster.Trainer, roster.View) action.Action {
	if len(s.actions) == 0 {
		return action.Struggle()
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a
}
