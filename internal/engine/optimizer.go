package engine

import (
	"io"
	"log/slog"

	"github.com/piwi3910/tilepack/internal/model"
)

// Optimizer packs item lists according to a set of PackSettings.
type Optimizer struct {
	Settings model.PackSettings
	logger   *slog.Logger
	ws       *Workspace
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkspace reuses ws instead of allocating a fresh workspace.
func WithWorkspace(ws *Workspace) Option {
	return func(o *Optimizer) {
		if ws != nil {
			o.ws = ws
		}
	}
}

func New(settings model.PackSettings, opts ...Option) *Optimizer {
	o := &Optimizer{
		Settings: settings,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		ws:       NewWorkspace(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.ws.SetLogger(o.logger)
	return o
}

// Optimize packs a copy of items into a single near-minimal bin, trying
// every configured ordering and, when enabled, an evolved one. The input
// slice is not modified.
func (o *Optimizer) Optimize(items []model.Item) (model.PackResult, error) {
	names := o.Settings.Orders
	if len(names) == 0 {
		names = model.DefaultOrderNames
	}
	orders, err := ResolveOrders(names)
	if err != nil {
		return model.PackResult{}, err
	}
	return o.pack(items, orders, false)
}

// OptimizeInOrder packs a copy of items in the order given, skipping the
// ordering heuristics.
func (o *Optimizer) OptimizeInOrder(items []model.Item) (model.PackResult, error) {
	return o.pack(items, nil, true)
}

func (o *Optimizer) pack(items []model.Item, orders []Order, dontSort bool) (model.PackResult, error) {
	work := make([]model.Item, len(items))
	copy(work, items)
	ptrs := make([]*model.Item, len(work))
	for i := range work {
		ptrs[i] = &work[i]
	}

	in := InputFromSettings(o.Settings)
	o.warnOversized(ptrs)

	var result model.PackResult
	reported := make(map[*model.Item]bool, len(ptrs))
	in.OnSuccess = func(it *model.Item) bool {
		reported[it] = true
		result.Placed = append(result.Placed, *it)
		return true
	}
	in.OnFailure = func(it *model.Item) bool {
		reported[it] = true
		result.Unplaced = append(result.Unplaced, *it)
		return !o.Settings.StopOnFailure
	}

	if !dontSort && o.Settings.Genetic.Enabled {
		evolved, err := EvolveOrder(o.ws, ptrs, in, o.Settings.Genetic)
		if err != nil {
			return model.PackResult{}, err
		}
		orders = append(orders, evolved)
	}

	var (
		outcome Outcome
		err     error
	)
	if dontSort {
		outcome, err = FindBestPackingDontSort(o.ws, ptrs, in)
	} else {
		outcome, err = FindBestPacking(o.ws, ptrs, in, orders...)
	}
	if err != nil {
		return model.PackResult{}, err
	}

	// Items after an aborted final pass were never tried.
	for _, it := range ptrs {
		if !reported[it] {
			it.Unplace()
			result.Unplaced = append(result.Unplaced, *it)
		}
	}

	result.Size = outcome.Size
	result.Bin = outcome.Bin
	result.Order = outcome.Order
	result.Fallback = outcome.Fallback
	result.Leftovers = model.DetectLeftovers(o.ws.Root().FreeRegions(), outcome.Size, model.MinLeftoverSide)

	o.logger.Info("packing complete",
		"bin", outcome.Bin.String(),
		"size", outcome.Size.String(),
		"order", outcome.Order,
		"placed", len(result.Placed),
		"unplaced", len(result.Unplaced),
		"fallback", outcome.Fallback,
	)
	return result, nil
}

func (o *Optimizer) warnOversized(items []*model.Item) {
	maxBin := model.NewSize(o.Settings.MaxBinSide, o.Settings.MaxBinSide)
	for _, it := range items {
		if it.Width < 0 || it.Height < 0 {
			continue
		}
		if !it.Submitted().FitsIn(maxBin, o.Settings.AllowFlip).Fits() {
			o.logger.Warn("item larger than the maximum bin",
				"id", it.ID,
				"label", it.Label,
				"size", it.Submitted().String(),
				"max_bin_side", o.Settings.MaxBinSide,
			)
		}
	}
}
