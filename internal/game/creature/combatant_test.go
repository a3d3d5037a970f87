package creature_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/condition"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
)

func TestNew_Validation(t *testing.T) {
	_, err := creature.New("x", "normal", 0, creature.Stats{})
	assert.Error(t, err)
	_, err = creature.New("x", "normal", 10, creature.Stats{}, tackle(), tackle(), tackle(), tackle(), tackle())
	assert.Error(t, err)

	m := tackle()
	c, err := creature.New("x", "normal", 10, creature.Stats{}, m)
	require.NoError(t, err)
	assert.Equal(t, creature.Level, c.Level)
	assert.Equal(t, 10, c.HP)
	assert.NotSame(t, m, c.Moves[0], "moves must be copied into the combatant")
}

func TestClone_Independent(t *testing.T) {
	a := mustNew("A", "normal", 100, creature.Stats{Attack: 10}, tackle())
	a.ModifyStat("attack", 2)
	b := a.Clone()
	b.Moves[0].PP = 0
	b.ModifyStat("attack", 5)
	b.HP = 1
	assert.Equal(t, 35, a.Moves[0].PP)
	assert.Equal(t, 2, a.Boosts["attack"])
	assert.Equal(t, 100, a.HP)
}

func TestStat_BasePlusBoostFloorOne(t *testing.T) {
	c := mustNew("A", "normal", 100, creature.Stats{Defense: 3})
	c.ModifyStat("defense", 2)
	assert.Equal(t, 5, c.Stat("defense"))
	c.ModifyStat("defense", -20)
	assert.Equal(t, 1, c.Stat("defense"))
	assert.Equal(t, -18, c.Boosts["defense"], "boosts are unclamped")
}

func TestTakeDamage_ClampsAtZero(t *testing.T) {
	c := mustNew("A", "normal", 30, creature.Stats{})
	n, blocked := c.TakeDamage(50)
	assert.False(t, blocked)
	assert.Equal(t, 30, n)
	assert.Equal(t, 0, c.HP)
	assert.True(t, c.Fainted())
}

func TestTakeDamage_SubstituteBlocksOnce(t *testing.T) {
	c := mustNew("A", "normal", 30, creature.Stats{})
	c.Restriction = creature.Substitute
	c.Effects.Add(condition.Effect{ID: "substitute", Kind: condition.KindRestriction, Target: condition.TargetUser, Restriction: creature.Substitute, Duration: condition.UntilCured})
	n, blocked := c.TakeDamage(25)
	assert.True(t, blocked)
	assert.Equal(t, 0, n)
	assert.Equal(t, 30, c.HP)
	assert.Empty(t, c.Restriction)
	assert.Zero(t, c.Effects.Len(), "the shield's record goes with it")

	n, blocked = c.TakeDamage(25)
	assert.False(t, blocked)
	assert.Equal(t, 25, n)
}

func TestHeal_Potions(t *testing.T) {
	c := mustNew("A", "normal", 250, creature.Stats{})
	c.HP = 100
	assert.Equal(t, 20, c.Heal(20))
	assert.Equal(t, 120, c.HP)
	c.Heal(200)
	assert.Equal(t, 250, c.HP, "heal caps at max hp")

	c.HP = 0
	assert.Equal(t, 0, c.Heal(200))
	assert.Equal(t, 0, c.HP, "heal is a no-op on a fainted combatant")
}

func TestRevive(t *testing.T) {
	c := mustNew("A", "normal", 101, creature.Stats{})
	c.HP = 40
	assert.Equal(t, 0, c.Revive(c.MaxHP/2))
	assert.Equal(t, 40, c.HP, "revive is a no-op on a standing combatant")

	c.HP = 0
	c.Revive(c.MaxHP / 2)
	assert.Equal(t, 50, c.HP)
}

func TestAttack_SkipsWhenFainted(t *testing.T) {
	env := newEnv(0)
	a := mustNew("A", "normal", 100, creature.Stats{Attack: 100}, tackle())
	b := mustNew("B", "normal", 100, creature.Stats{Defense: 50}, tackle())
	b.HP = 0
	res, err := a.Attack(0, b, env)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, 35, a.Moves[0].PP)

	b.HP, a.HP = 100, 0
	res, err = a.Attack(0, b, env)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, 100, b.HP)
}

func TestAttack_InvalidIndex(t *testing.T) {
	env := newEnv(0)
	a := mustNew("A", "normal", 100, creature.Stats{Attack: 100}, tackle())
	b := mustNew("B", "normal", 100, creature.Stats{Defense: 50})
	_, err := a.Attack(4, b, env)
	assert.True(t, errors.Is(err, action.ErrInvalidAction))
	_, err = a.Attack(-2, b, env)
	assert.True(t, errors.Is(err, action.ErrInvalidAction))
}

func TestAttack_EmptyMoveRejectedWhileOthersHavePP(t *testing.T) {
	env := newEnv(0)
	empty := tackle()
	empty.PP = 0
	a := mustNew("A", "normal", 100, creature.Stats{Attack: 100}, empty, tackle())
	b := mustNew("B", "normal", 100, creature.Stats{Defense: 50})
	_, err := a.Attack(0, b, env)
	assert.True(t, errors.Is(err, action.ErrInvalidAction))
	assert.Equal(t, 100, b.HP)
}

func TestAttack_StruggleWhenNoPP(t *testing.T) {
	env := newEnv(99)
	empty := tackle()
	empty.PP = 0
	a := mustNew("A", "normal", 100, creature.Stats{Attack: 100}, empty)
	b := mustNew("B", "normal", 100, creature.Stats{Defense: 50})
	res, err := a.Attack(3, b, env)
	require.NoError(t, err)
	assert.Equal(t, "Struggle", res.Move)
	assert.True(t, res.Hit, "struggle always hits")
	assert.Equal(t, 50, b.HP)
	assert.Equal(t, 75, a.HP, "struggle recoil is half its power")
	assert.Equal(t, 0, a.Moves[0].PP)
}

func TestAttack_ExplicitStruggle(t *testing.T) {
	env := newEnv(0)
	a := mustNew("A", "normal", 100, creature.Stats{Attack: 100}, tackle())
	b := mustNew("B", "normal", 100, creature.Stats{Defense: 50})
	res, err := a.Attack(action.StruggleIndex, b, env)
	require.NoError(t, err)
	assert.Equal(t, "Struggle", res.Move)
	assert.Equal(t, 35, a.Moves[0].PP)
}

func TestProperty_HPStaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxHP := rapid.IntRange(1, 500).Draw(rt, "maxHP")
		c := mustNew("A", "normal", maxHP, creature.Stats{})
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			amount := rapid.IntRange(-50, 600).Draw(rt, "amount")
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				c.TakeDamage(amount)
			case 1:
				c.Heal(amount)
			case 2:
				c.Revive(amount)
			}
			if c.HP < 0 || c.HP > c.MaxHP {
				rt.Fatalf("hp %d out of [0,%d]", c.HP, c.MaxHP)
			}
		}
	})
}
