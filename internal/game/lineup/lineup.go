// Package lineup turns a declarative trainer description into a ready
// roster.Trainer using the content catalog and the strategy registry.
package lineup

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/battlesim/internal/game/content"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/inventory"
	"github.com/cory-johannsen/battlesim/internal/game/roster"
)

// ErrUnknownStrategy is returned when a trainer names an unregistered strategy.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Member names one team slot.
type Member struct {
	Species  string `yaml:"species"`
	Nickname string `yaml:"nickname,omitempty"`
}

// Trainer describes one side. An empty Strategy means human control.
type Trainer struct {
	Name     string   `yaml:"name"`
	Color    string   `yaml:"color,omitempty"`
	Strategy string   `yaml:"strategy,omitempty"`
	Team     []Member `yaml:"team"`
	Items    []string `yaml:"items,omitempty"`
}

// Matchup is a pair of trainers, as stored in a lineup file.
type Matchup struct {
	Player1 Trainer `yaml:"player1"`
	Player2 Trainer `yaml:"player2"`
}

// Strategies resolves a strategy by registry name.
type Strategies interface {
	Lookup(name string) (roster.Strategy, bool)
}

// Build assembles a trainer.
//
// Precondition: db and strategies must be non-nil.
// Postcondition: returns content.ErrUnknownSpecies, content.ErrUnknownItem or
// ErrUnknownStrategy (wrapped) when a name does not resolve.
func Build(db *content.DB, strategies Strategies, t Trainer) (*roster.Trainer, error) {
	if t.Name == "" {
		return nil, fmt.Errorf("trainer name must not be empty")
	}
	members := make([]*creature.Combatant, 0, len(t.Team))
	for _, m := range t.Team {
		c, err := db.Combatant(m.Species, m.Nickname)
		if err != nil {
			return nil, fmt.Errorf("trainer %q: %w", t.Name, err)
		}
		members = append(members, c)
	}
	team, err := roster.NewTeam(members...)
	if err != nil {
		return nil, fmt.Errorf("trainer %q: %w", t.Name, err)
	}

	items := make([]inventory.Item, 0, len(t.Items))
	for _, name := range t.Items {
		it, err := db.Item(name)
		if err != nil {
			return nil, fmt.Errorf("trainer %q: %w", t.Name, err)
		}
		items = append(items, it)
	}
	bag, err := inventory.NewBackpack(items...)
	if err != nil {
		return nil, fmt.Errorf("trainer %q: %w", t.Name, err)
	}

	var strategy roster.Strategy
	if t.Strategy != "" {
		s, ok := strategies.Lookup(t.Strategy)
		if !ok {
			return nil, fmt.Errorf("trainer %q: %q: %w", t.Name, t.Strategy, ErrUnknownStrategy)
		}
		strategy = s
	}
	return roster.NewTrainer(t.Name, t.Color, team, bag, strategy), nil
}

// BuildPair assembles both sides of a matchup.
func BuildPair(db *content.DB, strategies Strategies, m Matchup) (*roster.Trainer, *roster.Trainer, error) {
	t1, err := Build(db, strategies, m.Player1)
	if err != nil {
		return nil, nil, err
	}
	t2, err := Build(db, strategies, m.Player2)
	if err != nil {
		return nil, nil, err
	}
	return t1, t2, nil
}

// LoadFile reads a matchup from a YAML file.
func LoadFile(path string) (Matchup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Matchup{}, fmt.Errorf("reading lineup %q: %w", path, err)
	}
	var m Matchup
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Matchup{}, fmt.Errorf("parsing lineup %q: %w", path, err)
	}
	return m, nil
}
