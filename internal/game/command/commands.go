// Package command provides the battle console's command registry, parser,
// and built-in command definitions.
package command

// Categories for organizing commands.
const (
	CategoryBattle = "battle"
	CategoryGame   = "game"
)

// Handler identifiers mapping commands to console handlers.
const (
	HandlerAttack   = "attack"
	HandlerStruggle = "struggle"
	HandlerItem     = "item"
	HandlerSwitch   = "switch"
	HandlerStatus   = "status"
	HandlerSave     = "save"
	HandlerLoad     = "load"
	HandlerHelp     = "help"
	HandlerQuit     = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage lists the arguments, e.g. "I T".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (battle, game).
	Category string
	// Handler maps to the console handler.
	Handler string
	// Args is the exact number of arguments the command takes.
	Args int
}

// BuiltinCommands returns all built-in console commands.
func BuiltinCommands() []Command {
	return []Command{
		// Battle commands
		{Name: "attack", Aliases: []string{"a", "att"}, Usage: "N", Help: "Use move N of the active combatant", Category: CategoryBattle, Handler: HandlerAttack, Args: 1},
		{Name: "struggle", Aliases: nil, Help: "Attack with Struggle", Category: CategoryBattle, Handler: HandlerStruggle},
		{Name: "item", Aliases: []string{"use", "i"}, Usage: "I T", Help: "Use item I on team member T", Category: CategoryBattle, Handler: HandlerItem, Args: 2},
		{Name: "switch", Aliases: []string{"sw", "go"}, Usage: "N", Help: "Send out team member N", Category: CategoryBattle, Handler: HandlerSwitch, Args: 1},
		{Name: "status", Aliases: []string{"st"}, Help: "Show the side to move", Category: CategoryBattle, Handler: HandlerStatus},

		// Game commands
		{Name: "save", Aliases: nil, Usage: "SLOT", Help: "Save the battle", Category: CategoryGame, Handler: HandlerSave, Args: 1},
		{Name: "load", Aliases: nil, Usage: "SLOT", Help: "Replace the battle with a saved one", Category: CategoryGame, Handler: HandlerLoad, Args: 1},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategoryGame, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave the battle", Category: CategoryGame, Handler: HandlerQuit},
	}
}
