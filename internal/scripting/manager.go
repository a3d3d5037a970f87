package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/game/dice"
)

// ErrScript is wrapped around every Lua runtime error returned by CallHook.
var ErrScript = errors.New("lua script error")

// vm is one loaded script VM. A LState is single-threaded, so every call holds mu.
type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	cancel func()
}

// Manager owns one sandboxed LState per named script.
//
// Manager is safe for concurrent use. Calls into the same script are
// serialized; different scripts run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	src    dice.Source
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: src and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scripts loaded.
func NewManager(src dice.Source, logger *zap.Logger) *Manager {
	if src == nil {
		panic("scripting.NewManager: src must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		src:    src,
		logger: logger,
	}
}

// LoadDir creates a sandboxed VM for name, registers the engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: name must be non-empty; scriptDir must be a readable directory.
// Postcondition: the VM is registered under name, replacing any previous one.
func (m *Manager) LoadDir(name, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, name, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)
	return m.load(name, instLimit, func(L *lua.LState) error {
		for _, path := range luaFiles {
			if err := L.DoFile(path); err != nil {
				return fmt.Errorf("scripting: loading %q for %q: %w", path, name, err)
			}
		}
		return nil
	})
}

// LoadFile loads a single script file under name.
func (m *Manager) LoadFile(name, path string, instLimit int) error {
	return m.load(name, instLimit, func(L *lua.LState) error {
		if err := L.DoFile(path); err != nil {
			return fmt.Errorf("scripting: loading %q for %q: %w", path, name, err)
		}
		return nil
	})
}

// LoadSource loads Lua source text under name.
func (m *Manager) LoadSource(name, src string, instLimit int) error {
	return m.load(name, instLimit, func(L *lua.LState) error {
		if err := L.DoString(src); err != nil {
			return fmt.Errorf("scripting: loading source for %q: %w", name, err)
		}
		return nil
	})
}

func (m *Manager) load(name string, instLimit int, run func(L *lua.LState) error) error {
	if name == "" {
		return fmt.Errorf("scripting: script name must not be empty")
	}
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	if err := run(L); err != nil {
		L.Close()
		return err
	}

	m.mu.Lock()
	if old, ok := m.vms[name]; ok {
		old.mu.Lock()
		if old.cancel != nil {
			old.cancel()
		}
		old.L.Close()
		old.mu.Unlock()
	}
	m.vms[name] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
	m.logger.Info("scripting: script loaded", zap.String("script", name))
	return nil
}

// Has reports whether a script is loaded under name.
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[name]
	return ok
}

// Names returns the loaded script names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vms))
	for n := range m.vms {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// CallHook calls the named Lua global function in name's VM with args.
// See CallHookWith.
func (m *Manager) CallHook(name, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.CallHookWith(name, hook, func(*lua.LState) []lua.LValue { return args })
}

// CallHookWith calls the named Lua global function in name's VM. build runs
// inside the VM lock and returns the call arguments, so it may allocate tables
// on the VM. Each call gets a fresh instruction budget.
//
// Postcondition: Returns (LNil, nil) if the script or hook is not defined.
// Lua runtime errors are logged at Warn level and returned wrapped in ErrScript.
func (m *Manager) CallHookWith(name, hook string, build func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[name]
	m.mu.RUnlock()
	if !ok {
		m.logger.Info("scripting: no VM for script",
			zap.String("script", name),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.L == nil {
		return lua.LNil, nil
	}

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.cancel = armLimit(v.L, v.limit)

	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, build(v.L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", name),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, fmt.Errorf("%s.%s: %w: %v", name, hook, ErrScript, err)
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
//
// Postcondition: Has returns false for every name.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, v := range m.vms {
		v.mu.Lock()
		if v.cancel != nil {
			v.cancel()
		}
		v.L.Close()
		v.L = nil
		v.mu.Unlock()
		delete(m.vms, name)
	}
}
