package creature

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/condition"
)

// Level is the fixed level every combatant fights at.
const Level = 100

// MaxMoves is the largest move set a combatant may carry.
const MaxMoves = 4

// Substitute is the restriction name of the one-shot damage shield.
const Substitute = "substitute"

// Stats holds the seven base combat stats.
type Stats struct {
	Attack         int `yaml:"attack"`
	Defense        int `yaml:"defense"`
	SpecialAttack  int `yaml:"special_attack"`
	SpecialDefense int `yaml:"special_defense"`
	Speed          int `yaml:"speed"`
	Accuracy       int `yaml:"accuracy"`
	Evasion        int `yaml:"evasion"`
}

// Get returns the stat named by one of the condition.Stat* constants, or 0.
func (s Stats) Get(name string) int {
	switch name {
	case condition.StatAttack:
		return s.Attack
	case condition.StatDefense:
		return s.Defense
	case condition.StatSpecialAttack:
		return s.SpecialAttack
	case condition.StatSpecialDefense:
		return s.SpecialDefense
	case condition.StatSpeed:
		return s.Speed
	case condition.StatAccuracy:
		return s.Accuracy
	case condition.StatEvasion:
		return s.Evasion
	}
	return 0
}

// Combatant is one creature in a team. A fainted combatant (HP == 0) stays
// addressable so it can be revived.
//
// Invariant: 0 <= HP <= MaxHP.
type Combatant struct {
	Name        string           `yaml:"name"`
	Type        string           `yaml:"type"`
	Level       int              `yaml:"level"`
	Base        Stats            `yaml:"base"`
	HP          int              `yaml:"hp"`
	MaxHP       int              `yaml:"max_hp"`
	Status      string           `yaml:"status,omitempty"`
	Boosts      map[string]int   `yaml:"boosts,omitempty"`
	Effects     condition.Ledger `yaml:"effects,omitempty"`
	Moves       []*Move          `yaml:"moves"`
	MustSwitch  bool             `yaml:"must_switch,omitempty"`
	Restriction string           `yaml:"restriction,omitempty"`
}

// New builds a combatant at full health with the given moves.
//
// Precondition: maxHP > 0 and len(moves) <= MaxMoves.
// Postcondition: HP == MaxHP and every move is owned by the returned combatant only.
func New(name, typ string, maxHP int, base Stats, moves ...*Move) (*Combatant, error) {
	if maxHP <= 0 {
		return nil, fmt.Errorf("combatant %q: max hp must be > 0, got %d", name, maxHP)
	}
	if len(moves) > MaxMoves {
		return nil, fmt.Errorf("combatant %q: at most %d moves, got %d", name, MaxMoves, len(moves))
	}
	c := &Combatant{
		Name:   name,
		Type:   typ,
		Level:  Level,
		Base:   base,
		HP:     maxHP,
		MaxHP:  maxHP,
		Boosts: make(map[string]int),
	}
	for _, m := range moves {
		c.Moves = append(c.Moves, m.Clone())
	}
	return c, nil
}

// Clone returns a deep copy of c: boosts, ledger and moves are not shared.
func (c *Combatant) Clone() *Combatant {
	out := *c
	out.Boosts = make(map[string]int, len(c.Boosts))
	for k, v := range c.Boosts {
		out.Boosts[k] = v
	}
	out.Effects = c.Effects.Clone()
	out.Moves = make([]*Move, 0, len(c.Moves))
	for _, m := range c.Moves {
		out.Moves = append(out.Moves, m.Clone())
	}
	return &out
}

// Fainted reports whether c has no HP left.
func (c *Combatant) Fainted() bool { return c.HP <= 0 }

// Stat returns the effective value of stat: base plus boost, never below 1.
func (c *Combatant) Stat(name string) int {
	v := c.Base.Get(name) + c.Boosts[name]
	if v < 1 {
		return 1
	}
	return v
}

// ModifyStat adds delta to the boost for stat. Boosts are additive and unclamped.
func (c *Combatant) ModifyStat(stat string, delta int) {
	if c.Boosts == nil {
		c.Boosts = make(map[string]int)
	}
	c.Boosts[stat] += delta
}

// ResetBoosts clears every stat boost.
func (c *Combatant) ResetBoosts() {
	c.Boosts = make(map[string]int)
}

// TakeDamage applies an incoming hit. An active substitute absorbs the whole
// hit once and is consumed.
//
// Postcondition: 0 <= HP <= MaxHP; returns the HP actually lost and whether the hit was blocked.
func (c *Combatant) TakeDamage(amount int) (int, bool) {
	if c.Restriction == Substitute {
		c.Restriction = ""
		c.Effects.RemoveKind(condition.KindRestriction)
		return 0, true
	}
	return c.loseHP(amount), false
}

// loseHP removes HP directly, bypassing any shield. Used for recoil and
// start-of-turn damage.
func (c *Combatant) loseHP(amount int) int {
	if amount <= 0 || c.HP <= 0 {
		return 0
	}
	if amount > c.HP {
		amount = c.HP
	}
	c.HP -= amount
	return amount
}

// Heal restores up to amount HP on a standing combatant.
//
// Postcondition: no-op when fainted; HP never exceeds MaxHP. Returns the HP restored.
func (c *Combatant) Heal(amount int) int {
	if c.HP <= 0 || amount <= 0 {
		return 0
	}
	before := c.HP
	c.HP = min(c.MaxHP, c.HP+amount)
	return c.HP - before
}

// Revive brings a fainted combatant back with amount HP.
//
// Postcondition: no-op unless fainted; HP never exceeds MaxHP. Returns the HP restored.
func (c *Combatant) Revive(amount int) int {
	if c.HP != 0 || amount <= 0 {
		return 0
	}
	c.HP = min(c.MaxHP, amount)
	return c.HP
}

// HasUsableMove reports whether any move has PP left.
func (c *Combatant) HasUsableMove() bool {
	for _, m := range c.Moves {
		if m.PP > 0 {
			return true
		}
	}
	return false
}

// Attack uses the move at index against target. When no move has PP left, or
// index is action.StruggleIndex, Struggle is used instead.
//
// Precondition: target must not be nil.
// Postcondition: returns a skipped result when either side has already fainted;
// returns action.ErrInvalidAction for an out-of-range index or a move with no PP
// while another move still has PP.
func (c *Combatant) Attack(index int, target *Combatant, env Env) (Result, error) {
	if c.Fainted() || target == nil || target.Fainted() {
		return Result{Skipped: true}, nil
	}
	var m *Move
	switch {
	case index == action.StruggleIndex || !c.HasUsableMove():
		m = NewStruggle()
	case index < 0 || index >= len(c.Moves):
		return Result{}, fmt.Errorf("%s has no move %d: %w", c.Name, index, action.ErrInvalidAction)
	case c.Moves[index].PP <= 0:
		return Result{}, fmt.Errorf("%s has no PP left: %w", c.Moves[index].Name, action.ErrInvalidAction)
	default:
		m = c.Moves[index]
	}
	env.Narrate("%s used %s", c.Name, m.Name)
	return m.Use(c, target, env)
}

// IsType reports whether c has type t, ignoring case.
func (c *Combatant) IsType(t string) bool { return strings.EqualFold(c.Type, t) }

// HPFraction returns HP/MaxHP in [0, 1].
func (c *Combatant) HPFraction() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP)
}

func (c *Combatant) String() string {
	return fmt.Sprintf("%s (%s) %d/%d", c.Name, c.Type, c.HP, c.MaxHP)
}
