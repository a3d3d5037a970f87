package creature

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/battlesim/internal/game/condition"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
)

// MoveKind selects how a move resolves.
type MoveKind string

const (
	KindPhysical MoveKind = "physical"
	KindSpecial  MoveKind = "special"
	KindStatus   MoveKind = "status"
	KindWeather  MoveKind = "weather"
	KindStruggle MoveKind = "struggle"
)

// StrugglePower is the fixed damage dealt by Struggle.
const StrugglePower = 50

// Move is one usable action in a combatant's move set. Each combatant owns its
// own Move values; they are never shared.
//
// Invariant: 0 <= PP <= MaxPP.
type Move struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Kind      MoveKind `yaml:"kind"`
	Power     int      `yaml:"power"`
	Precision int      `yaml:"precision"`
	MaxPP     int      `yaml:"max_pp"`
	PP        int      `yaml:"pp"`

	// Effect is applied by status moves.
	Effect *condition.Effect `yaml:"effect,omitempty"`
	// Curse switches a status move to the curse behaviour.
	Curse bool `yaml:"curse,omitempty"`

	// Climate and ClimateTurns are set by weather moves.
	Climate      string `yaml:"climate,omitempty"`
	ClimateTurns int    `yaml:"climate_turns,omitempty"`
}

// Result describes what one move use did.
type Result struct {
	Move          string
	Skipped       bool
	Hit           bool
	Blocked       bool
	Damage        int
	Recoil        int
	Effectiveness float64
}

// NewStruggle returns a fresh Struggle move.
func NewStruggle() *Move {
	return &Move{Name: "Struggle", Type: "normal", Kind: KindStruggle, Power: StrugglePower, Precision: 100}
}

// Clone returns a copy of m that shares nothing with it.
func (m *Move) Clone() *Move {
	out := *m
	if m.Effect != nil {
		e := m.Effect.Clone()
		out.Effect = &e
	}
	return &out
}

// Validate checks the move's shape for its kind.
func (m *Move) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("move name must not be empty")
	}
	if m.MaxPP < 0 || m.PP < 0 || m.PP > m.MaxPP {
		return fmt.Errorf("move %q: pp %d/%d out of range", m.Name, m.PP, m.MaxPP)
	}
	if m.Precision < 0 || m.Precision > 100 {
		return fmt.Errorf("move %q: precision must be in [0,100], got %d", m.Name, m.Precision)
	}
	switch m.Kind {
	case KindPhysical, KindSpecial:
		if m.Power <= 0 {
			return fmt.Errorf("move %q: damaging move requires power > 0", m.Name)
		}
	case KindStatus:
		if m.Curse {
			return nil
		}
		if m.Effect == nil {
			return fmt.Errorf("move %q: status move requires an effect", m.Name)
		}
		if err := m.Effect.Validate(); err != nil {
			return fmt.Errorf("move %q: %w", m.Name, err)
		}
	case KindWeather:
		if m.Climate == "" || m.ClimateTurns <= 0 {
			return fmt.Errorf("move %q: weather move requires climate and climate_turns > 0", m.Name)
		}
	case KindStruggle:
	default:
		return fmt.Errorf("move %q: unknown kind %q", m.Name, m.Kind)
	}
	return nil
}

// Damage computes the hit damage for the given inputs, truncating at every
// integer division step.
func Damage(level, power, atk, def int, effectiveness float64) int {
	if def < 1 {
		def = 1
	}
	base := (2*level/5+2)*power*atk/def/50 + 2
	return int(float64(base) * effectiveness)
}

func (m *Move) spend() {
	if m.PP > 0 {
		m.PP--
	}
}

// Use resolves m from user against target.
//
// Postcondition: no-op on a nil or fainted target. Physical and special moves
// spend PP only on a hit; status and weather moves spend PP on every use;
// Struggle never spends PP.
func (m *Move) Use(user, target *Combatant, env Env) (Result, error) {
	res := Result{Move: m.Name, Effectiveness: 1}
	if target == nil || target.Fainted() {
		res.Skipped = true
		return res, nil
	}
	switch m.Kind {
	case KindPhysical:
		m.useDamaging(user, target, env, user.Stat(condition.StatAttack), target.Stat(condition.StatDefense), &res)
	case KindSpecial:
		m.useDamaging(user, target, env, user.Stat(condition.StatSpecialAttack), target.Stat(condition.StatSpecialDefense), &res)
	case KindStatus:
		m.spend()
		res.Hit = true
		if m.Curse {
			curse(user, target, env)
			break
		}
		if m.Effect != nil {
			ApplyEffect(*m.Effect, user, target, env)
		}
	case KindWeather:
		m.spend()
		if dice.Percent(env.Rand(), m.Precision) {
			res.Hit = true
			env.SetClimate(m.Climate, m.ClimateTurns)
			env.Narrate("the weather turned to %s", m.Climate)
		} else {
			env.Narrate("but it failed")
		}
	case KindStruggle:
		res.Hit = true
		res.Damage, res.Blocked = target.TakeDamage(m.Power)
		res.Recoil = user.loseHP(m.Power / 2)
		m.narrateHit(target, env, res)
		env.Narrate("%s is hit with recoil", user.Name)
	default:
		return res, fmt.Errorf("move %q: unknown kind %q", m.Name, m.Kind)
	}
	return res, nil
}

func (m *Move) useDamaging(user, target *Combatant, env Env, atk, def int, res *Result) {
	if !dice.Percent(env.Rand(), m.Precision) {
		env.Narrate("%s's attack missed", user.Name)
		return
	}
	res.Hit = true
	res.Effectiveness = env.Chart().Effectiveness(m.Type, target.Type)
	dmg := Damage(user.Level, m.Power, atk, def, res.Effectiveness)
	res.Damage, res.Blocked = target.TakeDamage(dmg)
	m.spend()
	m.narrateHit(target, env, *res)
}

func (m *Move) narrateHit(target *Combatant, env Env, res Result) {
	if res.Blocked {
		env.Narrate("the substitute took the hit for %s", target.Name)
		return
	}
	switch {
	case res.Effectiveness == 0:
		env.Narrate("it doesn't affect %s", target.Name)
	case res.Effectiveness > 1:
		env.Narrate("it's super effective")
	case res.Effectiveness < 1:
		env.Narrate("it's not very effective")
	}
	if res.Damage > 0 {
		env.Narrate("%s lost %d hp", target.Name, res.Damage)
	}
}

// curse is the status move variant that raises the user's attack and defense
// at the cost of speed, unless the user is a ghost, in which case the user
// gives up half its HP and the target is cursed.
func curse(user, target *Combatant, env Env) {
	if !strings.EqualFold(user.Type, "ghost") {
		user.ModifyStat(condition.StatAttack, 1)
		user.ModifyStat(condition.StatDefense, 1)
		user.ModifyStat(condition.StatSpeed, -1)
		env.Narrate("%s's attack and defense rose, its speed fell", user.Name)
		return
	}
	user.loseHP(user.HP / 2)
	ApplyEffect(condition.Effect{
		ID:       "curse",
		Name:     "Curse",
		Kind:     condition.KindStatus,
		Target:   condition.TargetOpponent,
		Status:   StatusCursed,
		Duration: condition.UntilCured,
	}, user, target, env)
	env.Narrate("%s cut its own hp and laid a curse on %s", user.Name, target.Name)
}
