// Package roster holds the trainers on each side of a battle and their teams.
package roster

import (
	"fmt"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
)

// MaxTeamSize is the largest team a trainer may field.
const MaxTeamSize = 6

// NoActive marks a team with no active member.
const NoActive = -1

// Team is an ordered roster with one active member. The team owns its
// combatants exclusively.
//
// Invariant: Active is NoActive or indexes a member of Members.
type Team struct {
	Members []*creature.Combatant `yaml:"members"`
	Active  int                   `yaml:"active"`
}

// NewTeam builds a team from members and makes the first standing member active.
//
// Precondition: 1 <= len(members) <= MaxTeamSize.
func NewTeam(members ...*creature.Combatant) (*Team, error) {
	if len(members) == 0 || len(members) > MaxTeamSize {
		return nil, fmt.Errorf("team must have between 1 and %d members, got %d", MaxTeamSize, len(members))
	}
	t := &Team{Members: members, Active: NoActive}
	for i, m := range members {
		if m == nil {
			return nil, fmt.Errorf("team member %d is nil", i)
		}
	}
	t.Active = t.firstStanding(NoActive)
	return t, nil
}

// Clone returns a deep copy of t.
func (t *Team) Clone() *Team {
	out := &Team{Active: t.Active, Members: make([]*creature.Combatant, 0, len(t.Members))}
	for _, m := range t.Members {
		out.Members = append(out.Members, m.Clone())
	}
	return out
}

// ActiveMember returns the active combatant or nil.
func (t *Team) ActiveMember() *creature.Combatant {
	if t.Active < 0 || t.Active >= len(t.Members) {
		return nil
	}
	return t.Members[t.Active]
}

// Member returns the combatant at index or nil.
func (t *Team) Member(index int) *creature.Combatant {
	if index < 0 || index >= len(t.Members) {
		return nil
	}
	return t.Members[index]
}

// Len returns the team size.
func (t *Team) Len() int { return len(t.Members) }

// Switch makes the member at index active.
//
// Postcondition: on error the active index is unchanged; returns
// action.ErrIllegalSwitch when index is out of range or the member has fainted.
func (t *Team) Switch(index int) error {
	m := t.Member(index)
	if m == nil {
		return fmt.Errorf("no team member %d: %w", index, action.ErrIllegalSwitch)
	}
	if m.Fainted() {
		return fmt.Errorf("%s has fainted: %w", m.Name, action.ErrIllegalSwitch)
	}
	t.Active = index
	return nil
}

// SetActive selects the initial active member. It follows the same rules as Switch.
func (t *Team) SetActive(index int) error { return t.Switch(index) }

// FindHealthy returns the first non-active member with HP left, or -1.
func (t *Team) FindHealthy() int { return t.firstStanding(t.Active) }

func (t *Team) firstStanding(skip int) int {
	for i, m := range t.Members {
		if i != skip && !m.Fainted() {
			return i
		}
	}
	return -1
}

// AllFainted reports whether every member has fainted.
func (t *Team) AllFainted() bool {
	for _, m := range t.Members {
		if !m.Fainted() {
			return false
		}
	}
	return true
}

// ClearActive drops the active selection once every member has fainted.
func (t *Team) ClearActive() {
	if t.AllFainted() {
		t.Active = NoActive
	}
}
