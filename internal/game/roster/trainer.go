package roster

import (
	"fmt"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/inventory"
)

// View is the read side of a battle a Strategy may consult.
type View interface {
	// Opponent returns the trainer facing self.
	Opponent(self *Trainer) *Trainer
	Climate() string
	Rand() dice.Source
}

// Strategy picks an action for a CPU trainer. Implementations must not mutate
// the battle; randomness comes only from view.Rand().
type Strategy interface {
	Name() string
	DecideAction(self *Trainer, view View) action.Action
}

// Trainer is one side of a battle. A trainer with a Strategy is CPU controlled.
type Trainer struct {
	Name     string
	Color    string
	Team     *Team
	Items    *inventory.Backpack
	Strategy Strategy
}

// NewTrainer builds a trainer. A nil items backpack is replaced with an empty one.
//
// Precondition: team must not be nil.
func NewTrainer(name, color string, team *Team, items *inventory.Backpack, strategy Strategy) *Trainer {
	if items == nil {
		items = &inventory.Backpack{}
	}
	return &Trainer{Name: name, Color: color, Team: team, Items: items, Strategy: strategy}
}

// IsCPU reports whether the trainer is driven by a Strategy.
func (t *Trainer) IsCPU() bool { return t.Strategy != nil }

// Active returns the trainer's active combatant or nil.
func (t *Trainer) Active() *creature.Combatant { return t.Team.ActiveMember() }

// UseItem uses the item at itemIndex on the team member at targetIndex.
//
// Postcondition: on error neither the item list nor the target changes; on
// success the item is consumed and the HP restored is returned.
func (t *Trainer) UseItem(itemIndex, targetIndex int) (int, error) {
	item, ok := t.Items.At(itemIndex)
	if !ok {
		return 0, fmt.Errorf("%s has no item %d: %w", t.Name, itemIndex, action.ErrInvalidAction)
	}
	target := t.Team.Member(targetIndex)
	if target == nil {
		return 0, fmt.Errorf("%s has no team member %d: %w", t.Name, targetIndex, action.ErrInvalidAction)
	}
	n, err := item.Apply(target)
	if err != nil {
		return 0, err
	}
	if err := t.Items.RemoveAt(itemIndex); err != nil {
		return n, err
	}
	return n, nil
}

func (t *Trainer) String() string {
	kind := "human"
	if t.IsCPU() {
		kind = "cpu:" + t.Strategy.Name()
	}
	return fmt.Sprintf("%s (%s)", t.Name, kind)
}
