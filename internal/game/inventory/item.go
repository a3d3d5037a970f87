// Package inventory holds the single-use items a trainer carries into battle.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
)

// Kind selects how an item resolves.
type Kind string

const (
	KindHeal   Kind = "heal"
	KindRevive Kind = "revive"
)

// Well-known item names consulted by CPU strategies.
const (
	Potion      = "Potion"
	SuperPotion = "Super Potion"
	HyperPotion = "Hyper Potion"
	Revive      = "Revive"
)

// Item is the definition of a single-use item loaded from YAML.
// Amount is the HP restored by a heal item; revive items restore half of max HP.
type Item struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        Kind   `yaml:"kind"`
	Amount      int    `yaml:"amount"`
}

// NewPotion returns a heal item named name restoring amount HP.
func NewPotion(name string, amount int) Item {
	return Item{ID: idFor(name), Name: name, Kind: KindHeal, Amount: amount}
}

// NewRevive returns a revive item.
func NewRevive() Item {
	return Item{ID: "revive", Name: Revive, Kind: KindRevive}
}

func idFor(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Validate checks that the Item satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (d *Item) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	switch d.Kind {
	case KindHeal:
		if d.Amount <= 0 {
			errs = append(errs, errors.New("Amount must be > 0 for heal items"))
		}
	case KindRevive:
	default:
		errs = append(errs, fmt.Errorf("Kind must be one of heal, revive; got %q", d.Kind))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// CanUseOn reports whether d may be used on target: revive items need a
// fainted target, heal items a standing one.
func (d Item) CanUseOn(target *creature.Combatant) error {
	if target == nil {
		return fmt.Errorf("%s: no target: %w", d.Name, action.ErrInvalidAction)
	}
	switch d.Kind {
	case KindRevive:
		if !target.Fainted() {
			return fmt.Errorf("%s on %s, which has not fainted: %w", d.Name, target.Name, action.ErrIllegalItemUse)
		}
	case KindHeal:
		if target.Fainted() {
			return fmt.Errorf("%s on %s, which has fainted: %w", d.Name, target.Name, action.ErrIllegalItemUse)
		}
	default:
		return fmt.Errorf("%s: unknown item kind %q: %w", d.Name, d.Kind, action.ErrInvalidAction)
	}
	return nil
}

// Apply uses d on target.
//
// Postcondition: on error target is unchanged; otherwise returns the HP restored.
// Revive restores floor(MaxHP/2), and at least 1 so the target always stands up.
func (d Item) Apply(target *creature.Combatant) (int, error) {
	if err := d.CanUseOn(target); err != nil {
		return 0, err
	}
	if d.Kind == KindRevive {
		return target.Revive(max(1, target.MaxHP/2)), nil
	}
	return target.Heal(d.Amount), nil
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as an
// Item, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Items or the first encountered error.
func LoadItems(dir string) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*Item
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var d Item
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, &d)
	}
	return items, nil
}
