package babonus

import (
	"slices"
	"sort"
)

// Collection is a set of bonuses keyed by Bonus.Key, in insertion order
type Collection struct {
	keys  []string
	items map[string]*Bonus
}

// NewCollection builds a collection; later bonuses replace earlier ones with the same key
func NewCollection(bonuses ...*Bonus) *Collection {
	c := &Collection{items: make(map[string]*Bonus, len(bonuses))}
	for _, b := range bonuses {
		c.Set(b)
	}
	return c
}

// Set adds or replaces a bonus
func (c *Collection) Set(b *Bonus) {
	if c.items == nil {
		c.items = make(map[string]*Bonus)
	}
	key := b.Key()
	if _, exists := c.items[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.items[key] = b
}

// Get returns the bonus under key
func (c *Collection) Get(key string) (*Bonus, bool) {
	b, ok := c.items[key]
	return b, ok
}

// Delete removes the bonus under key
func (c *Collection) Delete(key string) {
	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == key })
}

// Len returns the number of bonuses
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns the keys in insertion order
func (c *Collection) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

// Values returns the bonuses in insertion order
func (c *Collection) Values() []*Bonus {
	if c == nil {
		return nil
	}
	out := make([]*Bonus, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.items[k])
	}
	return out
}

// Merge adds every bonus of other
func (c *Collection) Merge(other *Collection) {
	for _, b := range other.Values() {
		c.Set(b)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
