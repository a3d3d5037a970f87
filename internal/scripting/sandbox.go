// Package scripting provides a sandboxed GopherLua execution environment for
// scripted CPU opponents. It has no dependency on battle packages; callers
// build their own argument tables inside the VM via CallHookWith.
package scripting

import (
	"context"
	"strings"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

const (
	// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
	// hook call when no override is configured.
	DefaultInstructionLimit = 100_000
	// CallStackLimit bounds Lua call depth, so runaway recursion fails fast.
	CallStackLimit = 128
	// RegistryLimit bounds the VM value stack.
	RegistryLimit = 64 * 1024
	// MaxStringRep is the longest string string.rep may build.
	MaxStringRep = 4096
)

// removedGlobals are base-library functions a strategy script must not reach:
// code loading, GC control, and stdout.
var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require", "module", "print"}

// budget is a context.Context that cancels itself once Done has been called
// limit times. GopherLua's main loop calls Done once per opcode, so this is
// an exact instruction budget.
type budget struct {
	context.Context
	cancel    context.CancelFunc
	remaining atomic.Int64
}

func (b *budget) Done() <-chan struct{} {
	if b.remaining.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// armLimit gives L a fresh budget of limit opcodes; limit <= 0 selects
// DefaultInstructionLimit. The returned cancel releases the budget.
func armLimit(L *lua.LState, limit int) context.CancelFunc {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &budget{Context: ctx, cancel: cancel}
	b.remaining.Store(int64(limit))
	L.SetContext(b)
	return cancel
}

// cappedRep replaces string.rep so a script cannot allocate unbounded strings.
func cappedRep(L *lua.LState) int {
	s := L.CheckString(1)
	n := L.CheckInt(2)
	if n <= 0 || s == "" {
		L.Push(lua.LString(""))
		return 1
	}
	if len(s)*n > MaxStringRep {
		L.RaiseError("string.rep: result longer than %d bytes", MaxStringRep)
		return 0
	}
	L.Push(lua.LString(strings.Repeat(s, n)))
	return 1
}

// NewSandboxedState creates an LState for one strategy script. Only the base,
// table, string and math libraries are opened. The removed globals are
// unset, call depth and stack size are capped, and execution stops after
// instLimit opcodes.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil LState ready for RegisterModules and DoFile.
// The caller owns the LState and must call L.Close() when done.
func NewSandboxedState(instLimit int) *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:    true,
		CallStackSize:   CallStackLimit,
		RegistrySize:    1024,
		RegistryMaxSize: RegistryLimit,
	})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	if str, ok := L.GetGlobal(lua.StringLibName).(*lua.LTable); ok {
		str.RawSetString("rep", L.NewFunction(cappedRep))
	}

	armLimit(L, instLimit) //nolint:govet // the budget cancels itself when spent
	return L
}
