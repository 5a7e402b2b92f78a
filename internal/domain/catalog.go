package domain

import (
	"slices"
	"strings"
)

// Catalog is an ordered, duplicate-free list of names offered for selection.
type Catalog []string

// Add appends name if it is non-blank and not yet present.
// Returns the trimmed name and whether the catalog changed.
func (c *Catalog) Add(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || c.Contains(name) {
		return name, false
	}
	*c = append(*c, name)
	return name, true
}

// Remove deletes name. Removing an unknown name is a no-op.
func (c *Catalog) Remove(name string) bool {
	i := slices.Index(*c, strings.TrimSpace(name))
	if i < 0 {
		return false
	}
	*c = slices.Delete(*c, i, i+1)
	return true
}

func (c Catalog) Contains(name string) bool {
	return slices.Contains(c, strings.TrimSpace(name))
}

// Clone returns an independent copy.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return Catalog{}
	}
	return slices.Clone(c)
}
