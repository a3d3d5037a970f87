package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlesim/internal/game/inventory"
)

func TestBackpack_CapsAtSix(t *testing.T) {
	b, err := inventory.NewBackpack()
	require.NoError(t, err)
	for i := 0; i < inventory.MaxItems; i++ {
		_, err := b.Add(inventory.NewPotion(inventory.Potion, 20))
		require.NoError(t, err)
	}
	_, err = b.Add(inventory.NewRevive())
	assert.Error(t, err)
	assert.Equal(t, inventory.MaxItems, b.Len())

	_, err = inventory.NewBackpack(make([]inventory.Item, 7)...)
	assert.Error(t, err)
}

func TestBackpack_InstancesHaveDistinctIDs(t *testing.T) {
	b, err := inventory.NewBackpack(inventory.NewRevive(), inventory.NewRevive())
	require.NoError(t, err)
	items := b.Items()
	assert.NotEmpty(t, items[0].InstanceID)
	assert.NotEqual(t, items[0].InstanceID, items[1].InstanceID)
}

func TestBackpack_RemoveAtAndIndexOf(t *testing.T) {
	b, err := inventory.NewBackpack(inventory.NewPotion(inventory.Potion, 20), inventory.NewRevive())
	require.NoError(t, err)
	assert.Equal(t, 1, b.IndexOf(inventory.Revive))
	assert.Equal(t, -1, b.IndexOf(inventory.HyperPotion))
	require.NoError(t, b.RemoveAt(0))
	assert.Equal(t, 0, b.IndexOf(inventory.Revive))
	assert.Error(t, b.RemoveAt(3))
	_, ok := b.At(1)
	assert.False(t, ok)
}

func TestBackpack_RestoreKeepsID(t *testing.T) {
	b, _ := inventory.NewBackpack()
	require.NoError(t, b.Restore(inventory.ItemInstance{InstanceID: "abc", Item: inventory.NewRevive()}))
	assert.Equal(t, "abc", b.Items()[0].InstanceID)
}

func TestProperty_Backpack_NeverExceedsMax(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b, _ := inventory.NewBackpack()
		ops := rapid.IntRange(0, 30).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			if rapid.Bool().Draw(rt, "add") {
				_, _ = b.Add(inventory.NewRevive())
			} else {
				_ = b.RemoveAt(rapid.IntRange(-1, 7).Draw(rt, "idx"))
			}
			assert.LessOrEqual(rt, b.Len(), inventory.MaxItems)
		}
	})
}
