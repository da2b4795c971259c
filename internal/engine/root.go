package engine

import "github.com/piwi3910/tilepack/internal/model"

// Root owns the free regions of one candidate bin and tracks the bounding
// box of everything placed into it so far.
type Root struct {
	spaces    FreeSpaces
	allowFlip bool
	aabb      model.Size
}

func NewRoot(spaces FreeSpaces, allowFlip bool) *Root {
	return &Root{spaces: spaces, allowFlip: allowFlip}
}

// Reset empties the bin and seeds it with a single region covering bin.
// The free-space collection is reused across calls.
func (r *Root) Reset(bin model.Size) {
	r.spaces.Reset()
	r.spaces.Add(model.NewRect(0, 0, bin.Width, bin.Height))
	r.aabb = model.Size{}
}

// Insert places an item of size im into the newest free region that can
// hold it. With flipping allowed, the rotated orientation is used only when
// it leaves strictly fewer remainder regions. It reports false when no
// region fits or when the bounded collection has no room for the remainders.
func (r *Root) Insert(im model.Size) (model.Placement, bool) {
	for i := r.spaces.Count() - 1; i >= 0; i-- {
		sp := r.spaces.Get(i)

		chosen, flipped := insertAndSplit(im, sp), false
		if r.allowFlip {
			rotated := insertAndSplit(im.Flip(), sp)
			if rotated.ok() && (!chosen.ok() || rotated.betterThan(chosen)) {
				chosen, flipped = rotated, true
			}
		}
		if !chosen.ok() {
			continue
		}

		r.spaces.Remove(i)
		for s := 0; s < chosen.count; s++ {
			if !r.spaces.Add(chosen.spaces[s]) {
				return model.Placement{}, false
			}
		}

		placed := im
		if flipped {
			placed = im.Flip()
		}
		rect := model.NewRect(sp.X, sp.Y, placed.Width, placed.Height)
		r.aabb = r.aabb.ExpandWith(rect)
		return model.Placement{Rect: rect, Flipped: flipped}, true
	}
	return model.Placement{}, false
}

// RectsAABB returns the size actually used by the placed items, which may
// be smaller than the bin.
func (r *Root) RectsAABB() model.Size {
	return r.aabb
}

// FreeRegions returns a copy of the current free regions.
func (r *Root) FreeRegions() []model.Rect {
	out := make([]model.Rect, r.spaces.Count())
	for i := range out {
		out[i] = r.spaces.Get(i)
	}
	return out
}
