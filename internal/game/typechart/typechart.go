// Package typechart maps (attacking type, defending type) pairs to damage multipliers.
package typechart

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Neutral is the multiplier for any pair the chart does not list.
const Neutral = 1.0

// Entry is one (attack, defend) → multiplier row as stored in YAML.
type Entry struct {
	Attack     string  `yaml:"attack"`
	Defend     string  `yaml:"defend"`
	Multiplier float64 `yaml:"multiplier"`
}

type pair struct{ attack, defend string }

// Chart is a read-only lookup table of type multipliers. Type names are
// compared case-insensitively.
type Chart struct {
	rows map[pair]float64
}

// New builds a Chart from entries. Later entries for the same pair win.
//
// Postcondition: Effectiveness returns Multiplier for every listed pair and Neutral otherwise.
func New(entries []Entry) *Chart {
	c := &Chart{rows: make(map[pair]float64, len(entries))}
	for _, e := range entries {
		c.rows[key(e.Attack, e.Defend)] = e.Multiplier
	}
	return c
}

func key(attack, defend string) pair {
	return pair{strings.ToLower(attack), strings.ToLower(defend)}
}

// Effectiveness returns the damage multiplier for a move of type attack hitting
// a combatant of type defend.
//
// Postcondition: Returns Neutral for unlisted pairs.
func (c *Chart) Effectiveness(attack, defend string) float64 {
	if c == nil {
		return Neutral
	}
	if m, ok := c.rows[key(attack, defend)]; ok {
		return m
	}
	return Neutral
}

// Len returns the number of listed pairs.
func (c *Chart) Len() int { return len(c.rows) }

type chartFile struct {
	Entries []Entry `yaml:"entries"`
}

// LoadFile reads a YAML type chart of the form `entries: [{attack, defend, multiplier}]`.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a Chart or an error naming the file; negative multipliers are rejected.
func LoadFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading type chart %q: %w", path, err)
	}
	var f chartFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing type chart %q: %w", path, err)
	}
	for _, e := range f.Entries {
		if e.Attack == "" || e.Defend == "" {
			return nil, fmt.Errorf("type chart %q: entry missing attack or defend type", path)
		}
		if e.Multiplier < 0 {
			return nil, fmt.Errorf("type chart %q: %s→%s multiplier must be >= 0, got %v", path, e.Attack, e.Defend, e.Multiplier)
		}
	}
	return New(f.Entries), nil
}

// Default returns the built-in chart used when no chart file is configured.
func Default() *Chart {
	return New([]Entry{
		{"fire", "grass", 2}, {"fire", "ice", 2}, {"fire", "bug", 2}, {"fire", "steel", 2},
		{"fire", "water", 0.5}, {"fire", "rock", 0.5}, {"fire", "fire", 0.5},
		{"water", "fire", 2}, {"water", "ground", 2}, {"water", "rock", 2},
		{"water", "grass", 0.5}, {"water", "water", 0.5},
		{"grass", "water", 2}, {"grass", "ground", 2}, {"grass", "rock", 2},
		{"grass", "fire", 0.5}, {"grass", "grass", 0.5}, {"grass", "flying", 0.5},
		{"electric", "water", 2}, {"electric", "flying", 2},
		{"electric", "grass", 0.5}, {"electric", "ground", 0},
		{"ground", "electric", 2}, {"ground", "fire", 2}, {"ground", "rock", 2}, {"ground", "flying", 0},
		{"rock", "fire", 2}, {"rock", "flying", 2}, {"rock", "ice", 2},
		{"ice", "grass", 2}, {"ice", "ground", 2}, {"ice", "flying", 2}, {"ice", "fire", 0.5},
		{"fighting", "normal", 2}, {"fighting", "rock", 2}, {"fighting", "ghost", 0},
		{"normal", "ghost", 0}, {"normal", "rock", 0.5},
		{"ghost", "ghost", 2}, {"ghost", "normal", 0},
		{"psychic", "fighting", 2}, {"psychic", "poison", 2},
		{"poison", "grass", 2}, {"poison", "steel", 0},
	})
}
