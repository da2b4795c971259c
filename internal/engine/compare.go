package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/tilepack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the packing result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackResult
	BinArea       int
	Efficiency    float64
	UnplacedCount int
}

// CompareScenarios packs items once per scenario and returns the results in
// scenario order. Scenarios run concurrently, each with its own workspace.
// The first configuration error cancels the remaining scenarios.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, items []model.Item, logger *slog.Logger) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	for i, scenario := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var opts []Option
			if logger != nil {
				opts = append(opts, WithLogger(logger.With("scenario", scenario.Name)))
			}
			result, err := New(scenario.Settings, opts...).Optimize(items)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", scenario.Name, err)
			}

			results[i] = ComparisonResult{
				Scenario:      scenario,
				Result:        result,
				BinArea:       result.Size.Area(),
				Efficiency:    result.Efficiency(),
				UnplacedCount: len(result.Unplaced),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	flip := base
	flip.AllowFlip = !base.AllowFlip
	name := "Flipping Disabled"
	if flip.AllowFlip {
		name = "Flipping Enabled"
	}
	scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: flip})

	// Tightest search, or a coarse one when already at the tightest
	step := base
	if base.DiscardStep > 1 {
		step.DiscardStep = 1
	} else {
		step.DiscardStep = 16
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Discard Step %d", step.DiscardStep),
		Settings: step,
	})

	if base.SpacePolicy != model.SpacesBounded {
		bounded := base
		bounded.SpacePolicy = model.SpacesBounded
		if bounded.MaxSpaces <= 0 {
			bounded.MaxSpaces = model.DefaultMaxSpaces
		}
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Bounded Spaces (%d)", bounded.MaxSpaces),
			Settings: bounded,
		})
	}

	genetic := base
	genetic.Genetic.Enabled = !base.Genetic.Enabled
	if genetic.Genetic.Enabled {
		scenarios = append(scenarios, ComparisonScenario{Name: "Genetic Ordering", Settings: genetic})
	} else {
		scenarios = append(scenarios, ComparisonScenario{Name: "Without Genetic Ordering", Settings: genetic})
	}

	return scenarios
}
