package content

import (
	"fmt"

	"github.com/cory-johannsen/battlesim/internal/game/creature"
)

// Species is a combatant archetype: its type, base stats and move names.
type Species struct {
	Name  string         `yaml:"name"`
	Type  string         `yaml:"type"`
	MaxHP int            `yaml:"hp"`
	Stats creature.Stats `yaml:"stats"`
	Moves []string       `yaml:"moves"`
}

// Validate checks the species' own fields. Move names are resolved by the DB.
//
// Postcondition: returns nil iff Name and Type are non-empty, MaxHP >= 1 and
// the move list holds between 1 and creature.MaxMoves names.
func (s *Species) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("species: name must not be empty")
	}
	if s.Type == "" {
		return fmt.Errorf("species %q: type must not be empty", s.Name)
	}
	if s.MaxHP < 1 {
		return fmt.Errorf("species %q: hp must be >= 1", s.Name)
	}
	if len(s.Moves) == 0 || len(s.Moves) > creature.MaxMoves {
		return fmt.Errorf("species %q: must know 1 to %d moves, got %d", s.Name, creature.MaxMoves, len(s.Moves))
	}
	return nil
}

func (s *Species) clone() *Species {
	out := *s
	out.Moves = append([]string(nil), s.Moves...)
	return &out
}

// moveDef is the YAML shape of a move. Effects are referenced by ID.
type moveDef struct {
	Name         string            `yaml:"name"`
	Type         string            `yaml:"type"`
	Kind         creature.MoveKind `yaml:"kind"`
	Power        int               `yaml:"power"`
	Precision    int               `yaml:"precision"`
	PP           int               `yaml:"pp"`
	Effect       string            `yaml:"effect"`
	Curse        bool              `yaml:"curse"`
	Climate      string            `yaml:"climate"`
	ClimateTurns int               `yaml:"climate_turns"`
}

type movesFile struct {
	Moves []moveDef `yaml:"moves"`
}

type speciesFile struct {
	Species []Species `yaml:"species"`
}
