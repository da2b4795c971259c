package model

import "sort"

// MinLeftoverSide is the minimum width and height for a free region to be
// reported as reusable space.
const MinLeftoverSide = 4

// DetectLeftovers filters the free regions that remain after a packing run
// down to the ones worth reporting: both sides at least minSide, clipped to
// the used bounding box. Largest regions come first.
func DetectLeftovers(free []Rect, bounds Size, minSide int) []Rect {
	box := Rect{Width: bounds.Width, Height: bounds.Height}

	var leftovers []Rect
	for _, r := range free {
		clipped := Rect{
			X:      r.X,
			Y:      r.Y,
			Width:  min(r.Right(), box.Right()) - r.X,
			Height: min(r.Bottom(), box.Bottom()) - r.Y,
		}
		if clipped.Width < minSide || clipped.Height < minSide {
			continue
		}
		leftovers = append(leftovers, clipped)
	}

	sort.SliceStable(leftovers, func(i, j int) bool {
		return leftovers[i].Area() > leftovers[j].Area()
	})
	return leftovers
}

// TotalLeftoverArea returns the summed area of the given regions.
func TotalLeftoverArea(leftovers []Rect) int {
	total := 0
	for _, r := range leftovers {
		total += r.Area()
	}
	return total
}
