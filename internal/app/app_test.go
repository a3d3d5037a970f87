package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/app"
	"github.com/cory-johannsen/battlesim/internal/config"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/savegame"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	v := config.Defaults()
	v.Set("content.dir", "../../content")
	v.Set("content.scripts_dir", "../../content/scripts/strategies")
	v.Set("persistence.dir", t.TempDir())
	v.Set("logging.output", filepath.Join(t.TempDir(), "app.log"))
	v.Set("battle.seed", 42)
	cfg, err := config.LoadFromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestInitializeRuntime(t *testing.T) {
	rt, cleanup, err := app.InitializeRuntime(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	assert.NotNil(t, rt.Engine)
	assert.Contains(t, rt.Content.SpeciesNames(), "Pikachu")
	assert.IsType(t, &savegame.FileStore{}, rt.Store)
	assert.Nil(t, rt.Pool)
	for _, name := range []string{"attacking", "defensive", "changing", "expert", "scripted:cautious", "scripted:gambler"} {
		_, ok := rt.Strategies.Lookup(name)
		assert.True(t, ok, name)
	}
}

func TestInitializeRuntime_MissingScripts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.ScriptsDir = filepath.Join(t.TempDir(), "absent")
	_, _, err := app.InitializeRuntime(context.Background(), cfg)
	assert.Error(t, err)
}

func TestProvideScripts_Disabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.ScriptsDir = ""
	mgr, cleanup, err := app.ProvideScripts(cfg, dice.NewSeededSource(1), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	assert.Empty(t, mgr.Names())
}

func TestProvideSource_SeededIsReproducible(t *testing.T) {
	cfg := testConfig(t)
	a := app.ProvideSource(cfg, zap.NewNop())
	b := app.ProvideSource(cfg, zap.NewNop())
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}
