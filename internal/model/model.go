package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Size holds the dimensions of a rectangle without a position.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func NewSize(w, h int) Size {
	return Size{Width: w, Height: h}
}

// Area returns width * height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Perimeter returns the sum length of all four sides.
func (s Size) Perimeter() int {
	return 2*s.Width + 2*s.Height
}

// MaxSide returns the longer of the two sides.
func (s Size) MaxSide() int {
	return max(s.Width, s.Height)
}

// MinSide returns the shorter of the two sides.
func (s Size) MinSide() int {
	return min(s.Width, s.Height)
}

// Flip returns the size rotated by 90 degrees.
func (s Size) Flip() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// PathologicalMult weighs the area by the integer aspect ratio so that long,
// thin rectangles sort ahead of squares of similar area. Degenerate sizes
// with a zero side score 0.
func (s Size) PathologicalMult() int {
	minSide := s.MinSide()
	if minSide <= 0 {
		return 0
	}
	return s.MaxSide() / minSide * s.Area()
}

// ExpandWith grows the size so that it covers r, treating the size as the
// extent of a box anchored at the origin.
func (s Size) ExpandWith(r Rect) Size {
	return Size{
		Width:  max(s.Width, r.X+r.Width),
		Height: max(s.Height, r.Y+r.Height),
	}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Fit classifies how a size fits into a free space.
type Fit int

const (
	FitNone         Fit = iota // Does not fit in either orientation
	FitNormal                  // Fits upright with slack
	FitFlipped                 // Fits only when rotated, with slack
	FitExact                   // Fills the space exactly upright
	FitExactFlipped            // Fills the space exactly when rotated
)

func (f Fit) String() string {
	switch f {
	case FitNormal:
		return "Normal"
	case FitFlipped:
		return "Flipped"
	case FitExact:
		return "Exact"
	case FitExactFlipped:
		return "ExactFlipped"
	default:
		return "None"
	}
}

// Fits reports whether the classification is any kind of fit.
func (f Fit) Fits() bool {
	return f != FitNone
}

// FitsIn classifies s against space. Exact fits are preferred over slack fits,
// and the upright orientation is preferred over the rotated one.
func (s Size) FitsIn(space Size, allowFlip bool) Fit {
	if s.Width == space.Width && s.Height == space.Height {
		return FitExact
	}
	if allowFlip && s.Height == space.Width && s.Width == space.Height {
		return FitExactFlipped
	}
	if s.Width <= space.Width && s.Height <= space.Height {
		return FitNormal
	}
	if allowFlip && s.Height <= space.Width && s.Width <= space.Height {
		return FitFlipped
	}
	return FitNone
}

// Rect is a size anchored at its top-left corner. It describes either a
// placed item or a free region of a bin.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Size returns the dimensions of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

func (r Rect) Area() int {
	return r.Width * r.Height
}

func (r Rect) Perimeter() int {
	return 2*r.Width + 2*r.Height
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Intersects reports whether the two rectangles share any area. Touching
// edges do not count as an intersection.
func (r Rect) Intersects(o Rect) bool {
	return o.X < r.Right() && r.X < o.Right() && o.Y < r.Bottom() && r.Y < o.Bottom()
}

// ContainsRect reports whether o lies entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	return r.X <= o.X && o.Right() <= r.Right() && r.Y <= o.Y && o.Bottom() <= r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("<%d, %d, %d, %d>", r.X, r.Y, r.Width, r.Height)
}

// Placement is where the packer put one item. Rect carries the placed
// dimensions, which are the submitted ones swapped when Flipped is set.
type Placement struct {
	Rect    Rect
	Flipped bool
}

// Item is a rectangle submitted for packing. The packer reads its size and,
// on a successful placement, writes back the position, the placed
// dimensions and the flip flag. When Flipped is true, Width and Height hold
// the rotated dimensions.
type Item struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Flipped bool   `json:"flipped,omitempty"`
	Source  string `json:"source,omitempty"` // Path of the image the item stands for, if any
	Payload any    `json:"-"`
}

func NewItem(label string, w, h int) Item {
	return Item{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Height: h,
	}
}

// Rect returns the item's current position and dimensions.
func (it Item) Rect() Rect {
	return Rect{X: it.X, Y: it.Y, Width: it.Width, Height: it.Height}
}

// Submitted returns the dimensions the item was submitted with, undoing a
// rotation applied by an earlier placement.
func (it Item) Submitted() Size {
	if it.Flipped {
		return Size{Width: it.Height, Height: it.Width}
	}
	return Size{Width: it.Width, Height: it.Height}
}

// Place records a successful placement. r carries the placed dimensions,
// which are the submitted ones swapped when flipped is set.
func (it *Item) Place(r Rect, flipped bool) {
	it.X, it.Y = r.X, r.Y
	it.Width, it.Height = r.Width, r.Height
	it.Flipped = flipped
}

// Unplace restores the submitted orientation after a failed placement.
// The position is left untouched.
func (it *Item) Unplace() {
	s := it.Submitted()
	it.Width, it.Height = s.Width, s.Height
	it.Flipped = false
}

// PackResult holds the outcome of one packing run.
type PackResult struct {
	Size      Size   `json:"size"`  // Tight bounding box of all placed items
	Bin       Size   `json:"bin"`   // Candidate bin the final pass ran against
	Order     string `json:"order"` // Name of the ordering that won
	Fallback  bool   `json:"fallback,omitempty"`
	Placed    []Item `json:"placed"`
	Unplaced  []Item `json:"unplaced"`
	Leftovers []Rect `json:"leftovers,omitempty"`
}

// UsedArea returns the total area of the placed items.
func (pr PackResult) UsedArea() int {
	total := 0
	for _, it := range pr.Placed {
		total += it.Width * it.Height
	}
	return total
}

// TotalArea returns the area of the bounding box.
func (pr PackResult) TotalArea() int {
	return pr.Size.Area()
}

// Efficiency returns the usage percentage of the bounding box.
func (pr PackResult) Efficiency() float64 {
	ta := pr.TotalArea()
	if ta == 0 {
		return 0
	}
	return float64(pr.UsedArea()) / float64(ta) * 100.0
}

// Complete reports whether every item was placed.
func (pr PackResult) Complete() bool {
	return len(pr.Unplaced) == 0
}

// Project ties everything together for save/load.
type Project struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Items    []Item       `json:"items"`
	Settings PackSettings `json:"settings"`
	Result   *PackResult  `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		ID:       uuid.New().String()[:8],
		Name:     "Untitled",
		Items:    []Item{},
		Settings: DefaultSettings(),
	}
}
