package inventory

import (
	"fmt"
	"sort"
)

// Registry holds all loaded item definitions indexed by ID and by name.
type Registry struct {
	items  map[string]*Item
	byName map[string]*Item
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		items:  make(map[string]*Item),
		byName: make(map[string]*Item),
	}
}

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (*d, true); returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *Item) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	r.byName[d.Name] = d
	return nil
}

// Item returns a copy of the Item for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (Item, bool) {
	d, ok := r.items[id]
	if !ok {
		return Item{}, false
	}
	return *d, true
}

// ByName returns a copy of the Item with the given display name.
func (r *Registry) ByName(name string) (Item, bool) {
	d, ok := r.byName[name]
	if !ok {
		return Item{}, false
	}
	return *d, true
}

// AllItems returns all registered Items sorted by ID.
func (r *Registry) AllItems() []Item {
	out := make([]Item, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
