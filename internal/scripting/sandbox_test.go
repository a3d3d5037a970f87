package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlesim/internal/scripting"
)

func sandbox(t *testing.T, limit int) *lua.LState {
	t.Helper()
	L := scripting.NewSandboxedState(limit)
	require.NotNil(t, L)
	t.Cleanup(L.Close)
	return L
}

func TestNewSandboxedState_UnsafeLibsAndGlobalsNil(t *testing.T) {
	L := sandbox(t, 0)
	for _, name := range []string{"os", "io", "debug", "dofile", "loadfile", "load", "loadstring", "collectgarbage", "require", "print"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "expected %s to be nil", name)
	}
}

func TestNewSandboxedState_StrategyHelpersAvailable(t *testing.T) {
	L := sandbox(t, 0)
	err := L.DoString(`
		local moves = {3, 1, 2}
		table.sort(moves)
		assert(moves[1] == 1, "table.sort failed")
		assert(math.floor(7 / 2) == 3, "math.floor failed")
		assert(string.format("%d/%d", 5, 10) == "5/10", "string.format failed")
		assert(string.rep("ab", 3) == "ababab", "string.rep failed")
	`)
	assert.NoError(t, err)
}

func TestNewSandboxedState_StringRepCapped(t *testing.T) {
	L := sandbox(t, 0)
	err := L.DoString(`local s = string.rep("x", 1000000)`)
	assert.ErrorContains(t, err, "string.rep")
}

func TestNewSandboxedState_DeepRecursionFails(t *testing.T) {
	L := sandbox(t, 0)
	err := L.DoString(`
		local function dive(n) return dive(n + 1) + 1 end
		dive(0)
	`)
	assert.Error(t, err)
}

func TestProperty_InstructionLimitAlwaysErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 50).Draw(t, "limit")
		L := scripting.NewSandboxedState(limit)
		defer L.Close()
		if err := L.DoString(`while true do end`); err == nil {
			t.Fatalf("expected error with limit=%d but got nil", limit)
		}
	})
}
