package engine

import (
	"fmt"
	"log/slog"

	"github.com/piwi3910/tilepack/internal/model"
)

// Input configures one packing call.
type Input struct {
	MaxBinSide  int
	DiscardStep int
	AllowFlip   bool
	SpacePolicy model.SpacePolicy
	MaxSpaces   int

	// OnSuccess is called for each placed item during the final pass, after
	// the item's position and flip flag are written. Returning false stops
	// the pass.
	OnSuccess func(it *model.Item) bool
	// OnFailure is called for each item the final pass could not place.
	// Returning false stops the pass.
	OnFailure func(it *model.Item) bool
}

// InputFromSettings builds an Input without callbacks from settings.
func InputFromSettings(s model.PackSettings) Input {
	return Input{
		MaxBinSide:  s.MaxBinSide,
		DiscardStep: s.DiscardStep,
		AllowFlip:   s.AllowFlip,
		SpacePolicy: s.SpacePolicy,
		MaxSpaces:   s.MaxSpaces,
	}
}

func (in Input) validate(items []*model.Item) error {
	if in.MaxBinSide <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxBinSide, in.MaxBinSide)
	}
	if in.DiscardStep <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDiscardStep, in.DiscardStep)
	}
	if len(items) == 0 {
		return ErrNoItems
	}
	for i, it := range items {
		if it == nil {
			return fmt.Errorf("%w: item %d is nil", ErrInvalidItem, i)
		}
		if it.Width < 0 || it.Height < 0 {
			return fmt.Errorf("%w: item %d has negative size %dx%d", ErrInvalidItem, i, it.Width, it.Height)
		}
	}
	return nil
}

// Outcome summarizes a packing call.
type Outcome struct {
	Size     model.Size // Tight bounding box of the placed items
	Bin      model.Size // Candidate bin the final pass ran against
	Order    string     // Name of the winning ordering
	Fallback bool       // No ordering fit; the best-effort ordering was used at the maximum bin
}

// OrderInput names the caller-supplied order used by FindBestPackingDontSort.
const OrderInput = "input"

// Workspace holds the scratch state reused across packing calls: the root
// controller and the ordering buffers. It is fully reinitialized on every
// call but must not be shared between goroutines.
type Workspace struct {
	root      *Root
	policy    model.SpacePolicy
	maxSpaces int
	orderBufs [][]*model.Item
	logger    *slog.Logger
}

func NewWorkspace() *Workspace {
	return &Workspace{}
}

// SetLogger enables per-ordering debug logging. A nil logger disables it.
func (ws *Workspace) SetLogger(l *slog.Logger) {
	ws.logger = l
}

// Root returns the controller used by the last call. After a call returns,
// it still holds the final pass, so its free regions describe the leftover
// space of the packed bin.
func (ws *Workspace) Root() *Root {
	return ws.root
}

func (ws *Workspace) prepare(in Input) error {
	policy := in.SpacePolicy
	if policy == "" {
		policy = model.SpacesGrowable
	}
	if ws.root == nil || ws.policy != policy || (policy == model.SpacesBounded && ws.maxSpaces != in.MaxSpaces) {
		spaces, err := NewFreeSpaces(policy, in.MaxSpaces)
		if err != nil {
			return err
		}
		ws.root = NewRoot(spaces, in.AllowFlip)
		ws.policy = policy
		ws.maxSpaces = in.MaxSpaces
	}
	ws.root.allowFlip = in.AllowFlip
	return nil
}

func (ws *Workspace) orderBuf(i int) []*model.Item {
	for len(ws.orderBufs) <= i {
		ws.orderBufs = append(ws.orderBufs, nil)
	}
	return ws.orderBufs[i]
}

// FindBestPacking tries every ordering (DefaultOrders when none are given),
// searches a near-minimal bin for each, and keeps the ordering with the
// smallest bin. A final pass then places the items in the winning order,
// writing positions back and calling the callbacks.
//
// When no ordering fits within MaxBinSide, the ordering that placed the
// most area is replayed against the maximum bin and Fallback is set.
//
// A smaller DiscardStep makes the first, joint search phase at least as
// tight, but the width and height refinements start from that phase's
// result, so the final bin for a smaller step can still come out larger.
// Callers must not assume the final bin shrinks as DiscardStep does.
func FindBestPacking(ws *Workspace, items []*model.Item, in Input, orders ...Order) (Outcome, error) {
	if len(orders) == 0 {
		orders = DefaultOrders()
	}
	if err := in.validate(items); err != nil {
		return Outcome{}, err
	}
	if err := ws.prepare(in); err != nil {
		return Outcome{}, err
	}

	sequences := make([][]*model.Item, len(orders))
	for i, o := range orders {
		sequences[i] = sortInto(ws.orderBuf(i), items, o)
		ws.orderBufs[i] = sequences[i]
	}

	return ws.run(sequences, orderNames(orders), in), nil
}

// FindBestPackingDontSort runs the same search on items in the order given.
func FindBestPackingDontSort(ws *Workspace, items []*model.Item, in Input) (Outcome, error) {
	if err := in.validate(items); err != nil {
		return Outcome{}, err
	}
	if err := ws.prepare(in); err != nil {
		return Outcome{}, err
	}
	return ws.run([][]*model.Item{items}, []string{OrderInput}, in), nil
}

func orderNames(orders []Order) []string {
	names := make([]string, len(orders))
	for i, o := range orders {
		names[i] = o.Name
	}
	return names
}

func (ws *Workspace) run(sequences [][]*model.Item, names []string, in Input) Outcome {
	maxBin := model.NewSize(in.MaxBinSide, in.MaxBinSide)

	bestBin := maxBin
	bestOrder := -1
	fallbackOrder := 0
	bestTotal := -1

	for i, seq := range sequences {
		switch res := bestBinFor(ws.root, seq, bestBin, in.DiscardStep, in.MaxBinSide).(type) {
		case binFit:
			ws.debug("ordering fit", "order", names[i], "bin", res.bin.String())
			if res.bin.Area() <= bestBin.Area() {
				bestBin = res.bin
				bestOrder = i
			}
		case insertedArea:
			ws.debug("ordering failed", "order", names[i], "inserted_area", res.area)
			if bestOrder < 0 && res.area > bestTotal {
				bestTotal = res.area
				fallbackOrder = i
			}
		}
	}

	winner := bestOrder
	if winner < 0 {
		winner = fallbackOrder
	}

	ws.root.Reset(bestBin)
	for _, it := range sequences[winner] {
		p, ok := ws.root.Insert(it.Submitted())
		if ok {
			it.Place(p.Rect, p.Flipped)
			if in.OnSuccess != nil && !in.OnSuccess(it) {
				break
			}
			continue
		}
		it.Unplace()
		if in.OnFailure != nil && !in.OnFailure(it) {
			break
		}
	}

	return Outcome{
		Size:     ws.root.RectsAABB(),
		Bin:      bestBin,
		Order:    names[winner],
		Fallback: bestOrder < 0,
	}
}

func (ws *Workspace) debug(msg string, args ...any) {
	if ws.logger != nil {
		ws.logger.Debug(msg, args...)
	}
}
