package model

import "math"

// Estimate holds a quick lower-bound analysis of an item list, computed
// without running the packer.
type Estimate struct {
	ItemCount     int     `json:"item_count"`
	TotalArea     int     `json:"total_area"`      // Sum of item areas
	LargestSide   int     `json:"largest_side"`    // Longest side over all items
	MinSquareSide int     `json:"min_square_side"` // No square bin smaller than this can hold every item
	Oversized     int     `json:"oversized"`       // Items that cannot fit the max bin in any orientation
	FillRatio     float64 `json:"fill_ratio"`      // TotalArea relative to the max bin area, in percent
}

// CalculateEstimate computes the area lower bound for packing items into a
// square bin no larger than maxBinSide.
func CalculateEstimate(items []Item, maxBinSide int, allowFlip bool) Estimate {
	est := Estimate{ItemCount: len(items)}
	maxBin := NewSize(maxBinSide, maxBinSide)

	for _, it := range items {
		s := it.Submitted()
		est.TotalArea += s.Area()
		est.LargestSide = max(est.LargestSide, s.MaxSide())
		if !s.FitsIn(maxBin, allowFlip).Fits() {
			est.Oversized++
		}
	}

	side := int(math.Ceil(math.Sqrt(float64(est.TotalArea))))
	est.MinSquareSide = max(side, est.LargestSide)

	if maxBin.Area() > 0 {
		est.FillRatio = float64(est.TotalArea) / float64(maxBin.Area()) * 100.0
	}
	return est
}
