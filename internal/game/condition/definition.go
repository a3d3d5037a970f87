package condition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names what an Effect changes.
type Kind string

const (
	KindBuff        Kind = "buff"
	KindDebuff      Kind = "debuff"
	KindStatus      Kind = "status"
	KindWeather     Kind = "weather"
	KindForceSwitch Kind = "force_switch"
	KindResetStats  Kind = "reset_stats"
	KindRestriction Kind = "restriction"
)

// Target names which side of the exchange an Effect lands on.
type Target string

const (
	TargetUser     Target = "user"
	TargetOpponent Target = "opponent"
)

// UntilCured is the duration sentinel for effects that never expire on their own.
const UntilCured = 9999

// Stat names accepted in an Effect's stat-delta map.
const (
	StatAttack         = "attack"
	StatDefense        = "defense"
	StatSpecialAttack  = "special_attack"
	StatSpecialDefense = "special_defense"
	StatSpeed          = "speed"
	StatAccuracy       = "accuracy"
	StatEvasion        = "evasion"
)

var validStats = map[string]bool{
	StatAttack: true, StatDefense: true, StatSpecialAttack: true, StatSpecialDefense: true,
	StatSpeed: true, StatAccuracy: true, StatEvasion: true,
}

// ValidStat reports whether name is one of the seven combat stats.
func ValidStat(name string) bool { return validStats[name] }

// Effect is the static description of one non-damage consequence of a move.
type Effect struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Kind        Kind           `yaml:"kind"`
	Target      Target         `yaml:"target"`
	Stats       map[string]int `yaml:"stats,omitempty"`
	Status      string         `yaml:"status,omitempty"`
	Climate     string         `yaml:"climate,omitempty"`
	Restriction string         `yaml:"restriction,omitempty"`
	Duration    int            `yaml:"duration"`
	Stackable   bool           `yaml:"stackable"`
}

// Clone returns a copy of e whose stat map is not shared with e.
func (e Effect) Clone() Effect {
	out := e
	if e.Stats != nil {
		out.Stats = make(map[string]int, len(e.Stats))
		for k, v := range e.Stats {
			out.Stats[k] = v
		}
	}
	return out
}

// Tracked reports whether applying e leaves a ticking record on the affected combatant.
//
// Postcondition: true for STATUS and RESTRICTION effects with Duration > 0,
// and for stackable BUFF/DEBUFF effects with Duration > 1.
func (e Effect) Tracked() bool {
	switch e.Kind {
	case KindStatus, KindRestriction:
		return e.Duration > 0
	case KindBuff, KindDebuff:
		return e.Stackable && e.Duration > 1
	}
	return false
}

// Validate checks that e is internally consistent.
//
// Postcondition: Returns nil if e can be applied, or an error naming the first problem.
func (e Effect) Validate() error {
	switch e.Kind {
	case KindBuff, KindDebuff:
		if len(e.Stats) == 0 {
			return fmt.Errorf("effect %q: %s requires stats", e.ID, e.Kind)
		}
		for s := range e.Stats {
			if !ValidStat(s) {
				return fmt.Errorf("effect %q: unknown stat %q", e.ID, s)
			}
		}
	case KindStatus:
		if e.Status == "" {
			return fmt.Errorf("effect %q: status requires a status tag", e.ID)
		}
	case KindWeather:
		if e.Climate == "" {
			return fmt.Errorf("effect %q: weather requires a climate", e.ID)
		}
	case KindRestriction:
		if e.Restriction == "" {
			return fmt.Errorf("effect %q: restriction requires a restriction name", e.ID)
		}
	case KindForceSwitch, KindResetStats:
	default:
		return fmt.Errorf("effect %q: unknown kind %q", e.ID, e.Kind)
	}
	if e.Target != TargetUser && e.Target != TargetOpponent {
		return fmt.Errorf("effect %q: target must be user or opponent, got %q", e.ID, e.Target)
	}
	if e.Duration < 0 {
		return fmt.Errorf("effect %q: duration must be >= 0", e.ID)
	}
	return nil
}

// Registry holds all known Effects keyed by ID.
type Registry struct {
	defs map[string]*Effect
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Effect)}
}

// Register adds e to the registry, overwriting any existing entry with the same ID.
// Precondition: e must not be nil and e.ID must not be empty.
func (r *Registry) Register(e *Effect) {
	r.defs[e.ID] = e
}

// Get returns a clone of the Effect for id, or (Effect{}, false) if not found.
func (r *Registry) Get(id string) (Effect, bool) {
	d, ok := r.defs[id]
	if !ok {
		return Effect{}, false
	}
	return d.Clone(), true
}

// IDs returns the registered IDs in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.defs))
	for id := range r.defs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as an Effect,
// and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading effect dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Effect
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if def.ID == "" {
			return nil, fmt.Errorf("parsing %q: effect id must not be empty", path)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
