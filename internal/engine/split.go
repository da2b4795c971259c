package engine

import "github.com/piwi3910/tilepack/internal/model"

// splits holds the free regions left over after placing an item in the
// top-left corner of a free region. count is -1 when the item did not fit.
type splits struct {
	count  int
	spaces [2]model.Rect
}

func noFit() splits {
	return splits{count: -1}
}

// ok reports whether the item fit the region, possibly with zero remainders.
func (s splits) ok() bool {
	return s.count >= 0
}

// betterThan prefers the result that fragments the free space less.
func (s splits) betterThan(o splits) bool {
	return s.count < o.count
}

// insertAndSplit places im into the corner of sp and cuts the L-shaped
// remainder into at most two regions with a single straight cut.
//
// When both dimensions have slack the cut runs along the axis with less
// leftover, so the larger remainder spans the full side of sp.
func insertAndSplit(im model.Size, sp model.Rect) splits {
	freeW := sp.Width - im.Width
	freeH := sp.Height - im.Height

	if freeW < 0 || freeH < 0 {
		return noFit()
	}

	if freeW == 0 && freeH == 0 {
		return splits{}
	}

	if freeW > 0 && freeH == 0 {
		r := sp
		r.X += im.Width
		r.Width -= im.Width
		return splits{count: 1, spaces: [2]model.Rect{r}}
	}

	if freeW == 0 && freeH > 0 {
		r := sp
		r.Y += im.Height
		r.Height -= im.Height
		return splits{count: 1, spaces: [2]model.Rect{r}}
	}

	if freeW > freeH {
		bigger := model.NewRect(sp.X+im.Width, sp.Y, freeW, sp.Height)
		lesser := model.NewRect(sp.X, sp.Y+im.Height, im.Width, freeH)
		return splits{count: 2, spaces: [2]model.Rect{bigger, lesser}}
	}

	bigger := model.NewRect(sp.X, sp.Y+im.Height, sp.Width, freeH)
	lesser := model.NewRect(sp.X+im.Width, sp.Y, freeW, im.Height)
	return splits{count: 2, spaces: [2]model.Rect{bigger, lesser}}
}
