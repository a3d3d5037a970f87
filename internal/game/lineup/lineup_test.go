package lineup_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/battlesim/internal/game/ai"
	"github.com/cory-johannsen/battlesim/internal/game/content"
	"github.com/cory-johannsen/battlesim/internal/game/lineup"
)

func loadDB(t *testing.T) *content.DB {
	t.Helper()
	db, err := content.Load("../../../content")
	require.NoError(t, err)
	return db
}

func TestBuild(t *testing.T) {
	db := loadDB(t)
	tr, err := lineup.Build(db, ai.NewRegistry(), lineup.Trainer{
		Name:     "Blue",
		Strategy: "expert",
		Team:     []lineup.Member{{Species: "Squirtle"}, {Species: "Onix", Nickname: "Rocky"}},
		Items:    []string{"Potion", "Revive"},
	})
	require.NoError(t, err)
	assert.True(t, tr.IsCPU())
	assert.Equal(t, "expert", tr.Strategy.Name())
	assert.Equal(t, 2, tr.Team.Len())
	assert.Equal(t, "Rocky", tr.Team.Members[1].Name)
	assert.Equal(t, 2, tr.Items.Len())
	assert.Equal(t, "Squirtle", tr.Active().Name)
}

func TestBuild_Errors(t *testing.T) {
	db := loadDB(t)
	reg := ai.NewRegistry()

	_, err := lineup.Build(db, reg, lineup.Trainer{Name: "X", Team: []lineup.Member{{Species: "Mew"}}})
	assert.True(t, errors.Is(err, content.ErrUnknownSpecies))

	_, err = lineup.Build(db, reg, lineup.Trainer{Name: "X", Team: []lineup.Member{{Species: "Onix"}}, Items: []string{"Elixir"}})
	assert.True(t, errors.Is(err, content.ErrUnknownItem))

	_, err = lineup.Build(db, reg, lineup.Trainer{Name: "X", Strategy: "berserk", Team: []lineup.Member{{Species: "Onix"}}})
	assert.True(t, errors.Is(err, lineup.ErrUnknownStrategy))

	_, err = lineup.Build(db, reg, lineup.Trainer{Name: "X"})
	assert.Error(t, err, "empty team")

	_, err = lineup.Build(db, reg, lineup.Trainer{Team: []lineup.Member{{Species: "Onix"}}})
	assert.Error(t, err, "empty name")

	seven := make([]string, 7)
	for i := range seven {
		seven[i] = "Potion"
	}
	_, err = lineup.Build(db, reg, lineup.Trainer{Name: "X", Team: []lineup.Member{{Species: "Onix"}}, Items: seven})
	assert.Error(t, err, "backpack overflow")
}

func TestLoadFile(t *testing.T) {
	m, err := lineup.LoadFile("../../../content/lineups/classic.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Red", m.Player1.Name)
	assert.Equal(t, "expert", m.Player2.Strategy)

	t1, t2, err := lineup.BuildPair(loadDB(t), ai.NewRegistry(), m)
	require.NoError(t, err)
	assert.False(t, t1.IsCPU())
	assert.True(t, t2.IsCPU())

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("player1:\n  nmae: typo\n"), 0o644))
	_, err = lineup.LoadFile(bad)
	assert.Error(t, err)
}
