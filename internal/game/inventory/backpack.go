package inventory

import (
	"fmt"

	"github.com/google/uuid"
)

// MaxItems is the number of items a trainer may carry.
const MaxItems = 6

// ItemInstance is one carried item. Each instance is used at most once.
type ItemInstance struct {
	InstanceID string `yaml:"instance_id"`
	Item       Item   `yaml:"item"`
}

// Backpack is a trainer's ordered item list, capped at MaxItems.
type Backpack struct {
	items []ItemInstance
}

// NewBackpack creates a Backpack holding items in order.
//
// Postcondition: returns an error, and no Backpack, when len(items) > MaxItems.
func NewBackpack(items ...Item) (*Backpack, error) {
	b := &Backpack{}
	for _, it := range items {
		if _, err := b.Add(it); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Add appends a new instance of item.
//
// Postcondition: on error the backpack is unchanged.
func (b *Backpack) Add(item Item) (*ItemInstance, error) {
	if len(b.items) >= MaxItems {
		return nil, fmt.Errorf("backpack: cannot carry more than %d items", MaxItems)
	}
	b.items = append(b.items, ItemInstance{InstanceID: uuid.New().String(), Item: item})
	return &b.items[len(b.items)-1], nil
}

// Restore appends inst as-is, keeping its instance ID.
func (b *Backpack) Restore(inst ItemInstance) error {
	if len(b.items) >= MaxItems {
		return fmt.Errorf("backpack: cannot carry more than %d items", MaxItems)
	}
	if inst.InstanceID == "" {
		inst.InstanceID = uuid.New().String()
	}
	b.items = append(b.items, inst)
	return nil
}

// At returns the item at index.
func (b *Backpack) At(index int) (Item, bool) {
	if index < 0 || index >= len(b.items) {
		return Item{}, false
	}
	return b.items[index].Item, true
}

// RemoveAt drops the item at index.
//
// Postcondition: later items shift down by one.
func (b *Backpack) RemoveAt(index int) error {
	if index < 0 || index >= len(b.items) {
		return fmt.Errorf("backpack: index %d out of range", index)
	}
	b.items = append(b.items[:index], b.items[index+1:]...)
	return nil
}

// IndexOf returns the index of the first item named name, or -1.
func (b *Backpack) IndexOf(name string) int {
	for i, inst := range b.items {
		if inst.Item.Name == name {
			return i
		}
	}
	return -1
}

// Items returns a snapshot copy of all items in the backpack.
//
// Postcondition: returned slice is a copy; mutations do not affect the backpack.
func (b *Backpack) Items() []ItemInstance {
	out := make([]ItemInstance, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of carried items.
func (b *Backpack) Len() int {
	return len(b.items)
}
