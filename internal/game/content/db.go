// Package content is the read-only catalog of species, moves, items and the
// type chart a battle is assembled from. Every lookup returns an independent
// copy, so callers may mutate what they get.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/battlesim/internal/game/condition"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/inventory"
	"github.com/cory-johannsen/battlesim/internal/game/typechart"
)

var (
	// ErrUnknownMove is returned when a move name is not in the catalog.
	ErrUnknownMove = errors.New("unknown move")
	// ErrUnknownSpecies is returned when a species name is not in the catalog.
	ErrUnknownSpecies = errors.New("unknown species")
	// ErrUnknownItem is returned when an item name is not in the catalog.
	ErrUnknownItem = errors.New("unknown item")
)

// Catalog subdirectories and files under a content root.
const (
	EffectsDir    = "effects"
	MovesDir      = "moves"
	SpeciesDir    = "species"
	ItemsDir      = "items"
	TypeChartFile = "typechart.yaml"
)

// DB holds the loaded catalog. It is immutable after Load and safe for
// concurrent reads.
type DB struct {
	effects *condition.Registry
	items   *inventory.Registry
	chart   *typechart.Chart
	moves   map[string]*creature.Move
	species map[string]*Species
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Load reads a content root laid out as effects/, moves/, species/, items/
// and an optional typechart.yaml. Missing directories yield empty catalogs;
// a missing chart file yields typechart.Default().
//
// Postcondition: every species' moves resolve and every move's effect resolves,
// or an error naming the offending file is returned.
func Load(root string) (*DB, error) {
	db := &DB{
		effects: condition.NewRegistry(),
		items:   inventory.NewRegistry(),
		moves:   make(map[string]*creature.Move),
		species: make(map[string]*Species),
	}

	if dir := filepath.Join(root, EffectsDir); exists(dir) {
		reg, err := condition.LoadDirectory(dir)
		if err != nil {
			return nil, err
		}
		db.effects = reg
	}

	if dir := filepath.Join(root, ItemsDir); exists(dir) {
		items, err := inventory.LoadItems(dir)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if err := db.items.RegisterItem(it); err != nil {
				return nil, fmt.Errorf("loading items: %w", err)
			}
		}
	}

	var mf movesFile
	if err := eachFile(filepath.Join(root, MovesDir), &mf, func(path string) error {
		for _, d := range mf.Moves {
			m, err := db.buildMove(d)
			if err != nil {
				return fmt.Errorf("%q: %w", path, err)
			}
			if _, dup := db.moves[key(m.Name)]; dup {
				return fmt.Errorf("%q: duplicate move %q", path, m.Name)
			}
			db.moves[key(m.Name)] = m
		}
		mf = movesFile{}
		return nil
	}); err != nil {
		return nil, err
	}

	var sf speciesFile
	if err := eachFile(filepath.Join(root, SpeciesDir), &sf, func(path string) error {
		for i := range sf.Species {
			s := sf.Species[i].clone()
			if err := s.Validate(); err != nil {
				return fmt.Errorf("%q: %w", path, err)
			}
			for _, mv := range s.Moves {
				if _, ok := db.moves[key(mv)]; !ok {
					return fmt.Errorf("%q: species %q: %q: %w", path, s.Name, mv, ErrUnknownMove)
				}
			}
			if _, dup := db.species[key(s.Name)]; dup {
				return fmt.Errorf("%q: duplicate species %q", path, s.Name)
			}
			db.species[key(s.Name)] = s
		}
		sf = speciesFile{}
		return nil
	}); err != nil {
		return nil, err
	}

	db.chart = typechart.Default()
	if path := filepath.Join(root, TypeChartFile); exists(path) {
		chart, err := typechart.LoadFile(path)
		if err != nil {
			return nil, err
		}
		db.chart = chart
	}
	return db, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// eachFile strictly decodes every *.yaml file in dir into out and calls fn.
// A missing dir is not an error.
func eachFile(dir string, out any, fn func(path string) error) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := fn(path); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) buildMove(d moveDef) (*creature.Move, error) {
	m := &creature.Move{
		Name:         d.Name,
		Type:         d.Type,
		Kind:         d.Kind,
		Power:        d.Power,
		Precision:    d.Precision,
		MaxPP:        d.PP,
		PP:           d.PP,
		Curse:        d.Curse,
		Climate:      d.Climate,
		ClimateTurns: d.ClimateTurns,
	}
	if d.Effect != "" {
		e, ok := db.effects.Get(d.Effect)
		if !ok {
			return nil, fmt.Errorf("move %q: unknown effect %q", d.Name, d.Effect)
		}
		m.Effect = &e
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Move returns a fresh copy of the named move with full PP.
func (db *DB) Move(name string) (*creature.Move, error) {
	m, ok := db.moves[key(name)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownMove)
	}
	return m.Clone(), nil
}

// Species returns a copy of the named species.
func (db *DB) Species(name string) (*Species, error) {
	s, ok := db.species[key(name)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSpecies)
	}
	return s.clone(), nil
}

// Combatant builds a full-health combatant of the named species. An empty
// nickname uses the species name.
func (db *DB) Combatant(species, nickname string) (*creature.Combatant, error) {
	s, err := db.Species(species)
	if err != nil {
		return nil, err
	}
	moves := make([]*creature.Move, 0, len(s.Moves))
	for _, name := range s.Moves {
		m, err := db.Move(name)
		if err != nil {
			return nil, fmt.Errorf("species %q: %w", s.Name, err)
		}
		moves = append(moves, m)
	}
	if nickname == "" {
		nickname = s.Name
	}
	return creature.New(nickname, s.Type, s.MaxHP, s.Stats, moves...)
}

// Item returns the named item, matched by display name or ID.
func (db *DB) Item(name string) (inventory.Item, error) {
	if it, ok := db.items.ByName(name); ok {
		return it, nil
	}
	if it, ok := db.items.Item(key(name)); ok {
		return it, nil
	}
	return inventory.Item{}, fmt.Errorf("%q: %w", name, ErrUnknownItem)
}

// Items returns every catalog item sorted by ID.
func (db *DB) Items() []inventory.Item { return db.items.AllItems() }

// Chart returns the type chart.
func (db *DB) Chart() *typechart.Chart { return db.chart }

// Effect returns a copy of the effect with the given ID.
func (db *DB) Effect(id string) (condition.Effect, bool) { return db.effects.Get(id) }

// MoveNames returns the catalog's move names, sorted.
func (db *DB) MoveNames() []string {
	out := make([]string, 0, len(db.moves))
	for _, m := range db.moves {
		out = append(out, m.Name)
	}
	sort.Strings(out)
	return out
}

// SpeciesNames returns the catalog's species names, sorted.
func (db *DB) SpeciesNames() []string {
	out := make([]string, 0, len(db.species))
	for _, s := range db.species {
		out = append(out, s.Name)
	}
	sort.Strings(out)
	return out
}
