// Package savegame captures a running battle as plain data and rebuilds a
// playable battle from it.
package savegame

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/battlesim/internal/game/battle"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/inventory"
	"github.com/cory-johannsen/battlesim/internal/game/roster"
)

// Version is the current save format version.
const Version = 1

var (
	// ErrNotFound is returned by a Store when a slot holds no save.
	ErrNotFound = errors.New("save not found")
	// ErrUnknownStrategy is returned by Restore when a CPU trainer's strategy
	// name is not registered.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Mode says which sides are CPU controlled.
type Mode string

const (
	// ModePvP is human against human.
	ModePvP Mode = "pvp"
	// ModePvE is a human player 1 against a CPU player 2.
	ModePvE Mode = "pve"
	// ModeCPU is CPU against CPU.
	ModeCPU Mode = "cpu"
)

// ModeOf derives the mode from the trainers' control.
func ModeOf(t1, t2 *roster.Trainer) (Mode, error) {
	switch {
	case !t1.IsCPU() && !t2.IsCPU():
		return ModePvP, nil
	case !t1.IsCPU() && t2.IsCPU():
		return ModePvE, nil
	case t1.IsCPU() && t2.IsCPU():
		return ModeCPU, nil
	}
	return "", fmt.Errorf("a CPU player 1 against a human player 2 has no game mode")
}

// Trainer is the saved form of one side.
type Trainer struct {
	Name     string                   `yaml:"name"`
	Color    string                   `yaml:"color,omitempty"`
	Strategy string                   `yaml:"strategy,omitempty"`
	Active   int                      `yaml:"active"`
	Members  []*creature.Combatant    `yaml:"members"`
	Items    []inventory.ItemInstance `yaml:"items,omitempty"`
}

// Save is the complete structural state of a battle.
type Save struct {
	Version  int             `yaml:"version"`
	Mode     Mode            `yaml:"mode"`
	SavedAt  time.Time       `yaml:"saved_at"`
	Progress battle.Progress `yaml:"progress"`
	Player1  Trainer         `yaml:"player1"`
	Player2  Trainer         `yaml:"player2"`
}

// Capture copies the battle's state. The battle is not modified and the Save
// shares nothing with it.
//
// Postcondition: Restore(Capture(b)) yields a battle in the same state as b.
func Capture(b *battle.Battle) (*Save, error) {
	t1, t2 := b.Player(1), b.Player(2)
	mode, err := ModeOf(t1, t2)
	if err != nil {
		return nil, err
	}
	return &Save{
		Version:  Version,
		Mode:     mode,
		SavedAt:  time.Now().UTC(),
		Progress: b.Progress(),
		Player1:  captureTrainer(t1),
		Player2:  captureTrainer(t2),
	}, nil
}

func captureTrainer(t *roster.Trainer) Trainer {
	out := Trainer{Name: t.Name, Color: t.Color, Active: t.Team.Active, Items: t.Items.Items()}
	if t.Strategy != nil {
		out.Strategy = t.Strategy.Name()
	}
	for _, m := range t.Team.Members {
		out.Members = append(out.Members, m.Clone())
	}
	return out
}

// Strategies resolves a strategy by registry name.
type Strategies interface {
	Lookup(name string) (roster.Strategy, bool)
}

// Restore rebuilds a playable battle from s. opts are passed to battle.Resume.
//
// Precondition: every CPU trainer's strategy name resolves in strategies.
func Restore(s *Save, strategies Strategies, opts ...battle.Option) (*battle.Battle, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	t1, err := restoreTrainer(s.Player1, strategies)
	if err != nil {
		return nil, fmt.Errorf("restoring player 1: %w", err)
	}
	t2, err := restoreTrainer(s.Player2, strategies)
	if err != nil {
		return nil, fmt.Errorf("restoring player 2: %w", err)
	}
	return battle.Resume(t1, t2, s.Progress, opts...)
}

func restoreTrainer(st Trainer, strategies Strategies) (*roster.Trainer, error) {
	members := make([]*creature.Combatant, 0, len(st.Members))
	for _, m := range st.Members {
		members = append(members, m.Clone())
	}
	team, err := roster.NewTeam(members...)
	if err != nil {
		return nil, err
	}
	if st.Active != roster.NoActive && team.Member(st.Active) == nil {
		return nil, fmt.Errorf("active index %d out of range", st.Active)
	}
	team.Active = st.Active

	bag := &inventory.Backpack{}
	for _, inst := range st.Items {
		if err := bag.Restore(inst); err != nil {
			return nil, err
		}
	}

	var strategy roster.Strategy
	if st.Strategy != "" {
		var ok bool
		if strategy, ok = strategies.Lookup(st.Strategy); !ok {
			return nil, fmt.Errorf("%q: %w", st.Strategy, ErrUnknownStrategy)
		}
	}
	return roster.NewTrainer(st.Name, st.Color, team, bag, strategy), nil
}

// Validate checks the save's shape before it is restored.
//
// Postcondition: returns nil iff the version is supported, the mode agrees
// with which trainers carry a strategy, and every combatant is in range.
func (s *Save) Validate() error {
	if s.Version != Version {
		return fmt.Errorf("unsupported save version %d", s.Version)
	}
	var want [2]bool
	switch s.Mode {
	case ModePvP:
	case ModePvE:
		want[1] = true
	case ModeCPU:
		want = [2]bool{true, true}
	default:
		return fmt.Errorf("unknown game mode %q", s.Mode)
	}
	for i, t := range []Trainer{s.Player1, s.Player2} {
		if (t.Strategy != "") != want[i] {
			return fmt.Errorf("mode %s does not match player %d control", s.Mode, i+1)
		}
		for _, m := range t.Members {
			if m == nil {
				return fmt.Errorf("player %d: empty team slot", i+1)
			}
			if m.HP < 0 || m.HP > m.MaxHP {
				return fmt.Errorf("player %d: %s hp %d/%d out of range", i+1, m.Name, m.HP, m.MaxHP)
			}
			for _, mv := range m.Moves {
				if err := mv.Validate(); err != nil {
					return fmt.Errorf("player %d: %s: %w", i+1, m.Name, err)
				}
			}
		}
	}
	return nil
}

// Encode renders s as YAML followed by a BLAKE2b checksum trailer.
func Encode(s *Save) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding save: %w", err)
	}
	return seal(data), nil
}

// Decode verifies the checksum trailer and parses the save.
//
// Postcondition: returns an error wrapping ErrCorrupt when the data was
// truncated or edited after encoding.
func Decode(data []byte) (*Save, error) {
	body, err := unseal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	var s Save
	if err := yaml.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	return &s, nil
}
