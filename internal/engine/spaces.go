package engine

import (
	"fmt"

	"github.com/piwi3910/tilepack/internal/model"
)

// FreeSpaces is an unordered bag of the free regions of one bin. Regions
// never overlap each other or any placed item. Iteration order carries no
// meaning; Remove may reorder the remaining regions.
type FreeSpaces interface {
	// Reset drops every region.
	Reset()
	// Add stores r and reports false when there is no room left for it.
	Add(r model.Rect) bool
	// Remove deletes the region at index i by moving the last region into its slot.
	Remove(i int)
	// Count returns the number of stored regions.
	Count() int
	// Get returns the region at index i.
	Get(i int) model.Rect
}

// GrowableSpaces is backed by a slice that grows on demand. Add never fails.
type GrowableSpaces struct {
	spaces []model.Rect
}

func NewGrowableSpaces() *GrowableSpaces {
	return &GrowableSpaces{}
}

func (g *GrowableSpaces) Reset() {
	g.spaces = g.spaces[:0]
}

func (g *GrowableSpaces) Add(r model.Rect) bool {
	g.spaces = append(g.spaces, r)
	return true
}

func (g *GrowableSpaces) Remove(i int) {
	last := len(g.spaces) - 1
	g.spaces[i] = g.spaces[last]
	g.spaces = g.spaces[:last]
}

func (g *GrowableSpaces) Count() int {
	return len(g.spaces)
}

func (g *GrowableSpaces) Get(i int) model.Rect {
	return g.spaces[i]
}

// BoundedSpaces stores regions in a slot table allocated once. When the
// table is full, Add rejects the region and the caller treats the insertion
// as a non-fit, the same way it treats an item that is geometrically too big.
type BoundedSpaces struct {
	spaces []model.Rect
	num    int
}

// NewBoundedSpaces allocates a table of capacity slots. capacity must be positive.
func NewBoundedSpaces(capacity int) *BoundedSpaces {
	return &BoundedSpaces{spaces: make([]model.Rect, capacity)}
}

func (b *BoundedSpaces) Reset() {
	b.num = 0
}

func (b *BoundedSpaces) Add(r model.Rect) bool {
	if b.num >= len(b.spaces) {
		return false
	}
	b.spaces[b.num] = r
	b.num++
	return true
}

func (b *BoundedSpaces) Remove(i int) {
	b.spaces[i] = b.spaces[b.num-1]
	b.num--
}

func (b *BoundedSpaces) Count() int {
	return b.num
}

func (b *BoundedSpaces) Get(i int) model.Rect {
	return b.spaces[i]
}

// Capacity returns the number of slots in the table.
func (b *BoundedSpaces) Capacity() int {
	return len(b.spaces)
}

// NewFreeSpaces builds the collection selected by policy. An empty policy
// selects the growable collection.
func NewFreeSpaces(policy model.SpacePolicy, capacity int) (FreeSpaces, error) {
	switch policy {
	case model.SpacesGrowable, "":
		return NewGrowableSpaces(), nil
	case model.SpacesBounded:
		if capacity <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
		}
		return NewBoundedSpaces(capacity), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}
