package engine

import "github.com/piwi3910/tilepack/internal/model"

// searchResult is either a binFit or an insertedArea.
type searchResult interface {
	isSearchResult()
}

// binFit is the smallest bin in which every item of an ordering fit.
type binFit struct {
	bin model.Size
}

// insertedArea reports how much area one ordering managed to place when no
// tried bin held all of it.
type insertedArea struct {
	area int
}

func (binFit) isSearchResult()       {}
func (insertedArea) isSearchResult() {}

type searchDim int

const (
	dimBoth searchDim = iota
	dimWidth
	dimHeight
)

// tryBin resets root to bin and inserts the items in order. It stops at the
// first failure and returns the area placed up to that point.
func tryBin(root *Root, order []*model.Item, bin model.Size) (int, bool) {
	root.Reset(bin)
	total := 0
	for _, it := range order {
		s := it.Submitted()
		if _, ok := root.Insert(s); !ok {
			return total, false
		}
		total += s.Area()
	}
	return total, true
}

// searchDimension runs one step-halving search over the sides selected by
// dim. The candidate starts at half of start and moves by a step that halves
// after every attempt. Growing past start, or past maxSide for the joint
// search, gives up with the area placed by the last attempt.
func searchDimension(root *Root, order []*model.Item, start model.Size, discardStep, maxSide int, dim searchDim) searchResult {
	candidate := start
	var step int
	switch dim {
	case dimBoth:
		candidate.Width /= 2
		candidate.Height /= 2
		step = candidate.Width / 2
	case dimWidth:
		candidate.Width /= 2
		step = candidate.Width / 2
	case dimHeight:
		candidate.Height /= 2
		step = candidate.Height / 2
	}
	step = max(1, step)

	for {
		area, allIn := tryBin(root, order, candidate)

		if allIn {
			if step <= discardStep {
				return binFit{bin: candidate}
			}
			switch dim {
			case dimBoth:
				candidate.Width -= step
				candidate.Height -= step
			case dimWidth:
				candidate.Width -= step
			case dimHeight:
				candidate.Height -= step
			}
		} else {
			switch dim {
			case dimBoth:
				candidate.Width += step
				candidate.Height += step
				if candidate.Area() > start.Area() || candidate.Width > maxSide || candidate.Height > maxSide {
					return insertedArea{area: area}
				}
			case dimWidth:
				candidate.Width += step
				if candidate.Width > start.Width {
					return insertedArea{area: area}
				}
			case dimHeight:
				candidate.Height += step
				if candidate.Height > start.Height {
					return insertedArea{area: area}
				}
			}
		}

		step = max(1, step/2)
	}
}

// bestBinFor finds a near-minimal bin for one ordering: first both sides
// together, then width alone, then height alone, each refinement starting
// from the best bin found so far. A failed refinement keeps the previous bin.
func bestBinFor(root *Root, order []*model.Item, start model.Size, discardStep, maxSide int) searchResult {
	res := searchDimension(root, order, start, discardStep, maxSide, dimBoth)
	fit, ok := res.(binFit)
	if !ok {
		return res
	}

	best := fit.bin
	for _, dim := range []searchDim{dimWidth, dimHeight} {
		if f, ok := searchDimension(root, order, best, discardStep, maxSide, dim).(binFit); ok {
			best = f.bin
		}
	}
	return binFit{bin: best}
}
