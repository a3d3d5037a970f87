package command

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/battlesim/internal/game/action"
)

// ToAction builds the engine action for a battle command.
//
// Precondition: cmd must be non-nil.
// Postcondition: returns an error when cmd is not a battle action, the
// argument count differs from cmd.Args, or an argument is not a positive number.
func ToAction(cmd *Command, args []string) (action.Action, error) {
	if len(args) != cmd.Args {
		return nil, fmt.Errorf("usage: %s", strings.TrimSpace(cmd.Name+" "+cmd.Usage))
	}
	idx, err := Indices(args)
	if err != nil {
		return nil, err
	}
	switch cmd.Handler {
	case HandlerAttack:
		return action.Attack{MoveIndex: idx[0]}, nil
	case HandlerStruggle:
		return action.Struggle(), nil
	case HandlerItem:
		return action.UseItem{ItemIndex: idx[0], TargetIndex: idx[1]}, nil
	case HandlerSwitch:
		return action.Switch{TargetIndex: idx[0]}, nil
	}
	return nil, fmt.Errorf("%q is not a battle action", cmd.Name)
}
