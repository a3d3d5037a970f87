package ai

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/game/action"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/roster"
)

// ScriptedPrefix prefixes the registry name of every scripted strategy.
const ScriptedPrefix = "scripted:"

// decideHook is the Lua global a strategy script must define.
const decideHook = "decide"

// ScriptCaller is the interface required by Scripted to run Lua decisions.
type ScriptCaller interface {
	// CallHookWith calls a named Lua function in the given script's VM,
	// building the arguments inside the VM. Returns (LNil, nil) if the
	// function is not defined.
	CallHookWith(script, hook string, build func(L *lua.LState) []lua.LValue) (lua.LValue, error)
}

// Scripted delegates decisions to a Lua `decide(state)` function. The function
// returns one of
//
//	{kind="attack", move=N}
//	{kind="item", item=I, target=T}
//	{kind="switch", target=N}
//
// with 1-based indices; move=0 selects Struggle. Any error or malformed
// result falls back to Attacking.
type Scripted struct {
	script   string
	caller   ScriptCaller
	fallback roster.Strategy
	logger   *zap.Logger
}

// NewScripted builds a strategy that runs script through caller.
//
// Precondition: caller must not be nil.
func NewScripted(script string, caller ScriptCaller, logger *zap.Logger) *Scripted {
	if caller == nil {
		panic("ai.NewScripted: caller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scripted{script: script, caller: caller, fallback: Attacking{}, logger: logger}
}

func (s *Scripted) Name() string { return ScriptedPrefix + s.script }

// DecideAction implements roster.Strategy.
func (s *Scripted) DecideAction(self *roster.Trainer, view roster.View) action.Action {
	ret, err := s.caller.CallHookWith(s.script, decideHook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{buildState(L, self, view)}
	})
	if err != nil {
		s.logger.Warn("scripted strategy failed, falling back",
			zap.String("script", s.script), zap.Error(err))
		return s.fallback.DecideAction(self, view)
	}
	if a := parseAction(ret); a != nil {
		return a
	}
	s.logger.Debug("scripted strategy returned no action, falling back",
		zap.String("script", s.script))
	return s.fallback.DecideAction(self, view)
}

func buildState(L *lua.LState, self *roster.Trainer, view roster.View) *lua.LTable {
	state := L.NewTable()
	L.SetField(state, "climate", lua.LString(view.Climate()))
	L.SetField(state, "active", lua.LNumber(self.Team.Active+1))
	if a := self.Active(); a != nil {
		L.SetField(state, "self", combatantTable(L, a))
	}
	if opp := opponentActive(self, view); opp != nil {
		L.SetField(state, "opponent", combatantTable(L, opp))
	}

	team := L.NewTable()
	for _, m := range self.Team.Members {
		team.Append(combatantTable(L, m))
	}
	L.SetField(state, "team", team)

	items := L.NewTable()
	for _, inst := range self.Items.Items() {
		it := L.NewTable()
		L.SetField(it, "name", lua.LString(inst.Item.Name))
		L.SetField(it, "kind", lua.LString(inst.Item.Kind))
		L.SetField(it, "amount", lua.LNumber(inst.Item.Amount))
		items.Append(it)
	}
	L.SetField(state, "items", items)
	return state
}

func combatantTable(L *lua.LState, c *creature.Combatant) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(c.Name))
	L.SetField(t, "type", lua.LString(c.Type))
	L.SetField(t, "hp", lua.LNumber(c.HP))
	L.SetField(t, "max_hp", lua.LNumber(c.MaxHP))
	L.SetField(t, "status", lua.LString(c.Status))
	moves := L.NewTable()
	for _, m := range c.Moves {
		mt := L.NewTable()
		L.SetField(mt, "name", lua.LString(m.Name))
		L.SetField(mt, "type", lua.LString(m.Type))
		L.SetField(mt, "kind", lua.LString(m.Kind))
		L.SetField(mt, "power", lua.LNumber(m.Power))
		L.SetField(mt, "pp", lua.LNumber(m.PP))
		L.SetField(mt, "max_pp", lua.LNumber(m.MaxPP))
		moves.Append(mt)
	}
	L.SetField(t, "moves", moves)
	return t
}

// parseAction converts a decide() result to an Action, or nil when malformed.
func parseAction(v lua.LValue) action.Action {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	kind, ok := tbl.RawGetString("kind").(lua.LString)
	if !ok {
		return nil
	}
	num := func(key string) (int, bool) {
		n, ok := tbl.RawGetString(key).(lua.LNumber)
		return int(n), ok
	}
	switch string(kind) {
	case "attack":
		n, ok := num("move")
		if !ok {
			return nil
		}
		if n == 0 {
			return action.Struggle()
		}
		return action.Attack{MoveIndex: n - 1}
	case "item":
		item, ok1 := num("item")
		target, ok2 := num("target")
		if !ok1 || !ok2 {
			return nil
		}
		return action.UseItem{ItemIndex: item - 1, TargetIndex: target - 1}
	case "switch":
		n, ok := num("target")
		if !ok {
			return nil
		}
		return action.Switch{TargetIndex: n - 1}
	}
	return nil
}
