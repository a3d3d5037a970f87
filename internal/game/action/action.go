// Package action defines the commands a trainer can issue on its turn and the
// errors the battle engine returns when a command cannot be carried out.
package action

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction is returned for an out-of-range move, item or target index.
	ErrInvalidAction = errors.New("invalid action")
	// ErrIllegalTurn is returned when acting on a finished battle, out of turn,
	// or issuing a manual action on a CPU trainer's turn.
	ErrIllegalTurn = errors.New("illegal turn")
	// ErrIllegalItemUse is returned for a Revive on a standing combatant or a
	// healing item on a fainted one.
	ErrIllegalItemUse = errors.New("illegal item use")
	// ErrIllegalSwitch is returned when the switch target is out of range or fainted.
	ErrIllegalSwitch = errors.New("illegal switch")
)

// StruggleIndex is the move index that always selects Struggle.
const StruggleIndex = -1

// Action is one of Attack, UseItem or Switch. The unexported marker keeps the
// set of variants closed to this package.
type Action interface {
	isAction()
	fmt.Stringer
}

// Attack uses the move at MoveIndex of the active combatant.
type Attack struct {
	MoveIndex int
}

// UseItem uses the item at ItemIndex on the team member at TargetIndex.
type UseItem struct {
	ItemIndex   int
	TargetIndex int
}

// Switch makes the team member at TargetIndex the active combatant.
type Switch struct {
	TargetIndex int
}

func (Attack) isAction()  {}
func (UseItem) isAction() {}
func (Switch) isAction()  {}

func (a Attack) String() string {
	if a.MoveIndex == StruggleIndex {
		return "attack(struggle)"
	}
	return fmt.Sprintf("attack(%d)", a.MoveIndex)
}

func (a UseItem) String() string { return fmt.Sprintf("item(%d→%d)", a.ItemIndex, a.TargetIndex) }
func (a Switch) String() string  { return fmt.Sprintf("switch(%d)", a.TargetIndex) }

// Struggle returns the Attack that forces Struggle.
func Struggle() Attack { return Attack{MoveIndex: StruggleIndex} }
