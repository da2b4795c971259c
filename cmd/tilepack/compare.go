package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/piwi3910/tilepack/internal/engine"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (c *cli) newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <input>",
		Short: "Compare packing results across setting variants",
		Long: `The compare command packs the input once with the current settings and
once per what-if variant (flipping toggled, a different discard step,
bounded free spaces, genetic ordering toggled), running the variants in
parallel.

Example:
  tilepack compare sprites/
  tilepack compare parts.csv --max-side 1024 --json`,
		Args:    cobra.ExactArgs(1),
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd, args[0])
		},
	}
	addSettingsFlags(cmd.Flags())
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

// comparisonRow is the printed form of one scenario.
type comparisonRow struct {
	Scenario   string  `json:"scenario"`
	Bin        string  `json:"bin"`
	Size       string  `json:"size"`
	Order      string  `json:"order"`
	BinArea    int     `json:"bin_area"`
	Efficiency float64 `json:"efficiency"`
	Unplaced   int     `json:"unplaced"`
}

func (c *cli) runCompare(cmd *cobra.Command, input string) error {
	in, err := c.loadInput(input, false)
	if err != nil {
		return err
	}
	settings, err := c.resolveSettings(in.project)
	if err != nil {
		return err
	}

	results, err := engine.CompareScenarios(cmd.Context(), engine.BuildDefaultScenarios(settings), in.items, c.logger)
	if err != nil {
		return err
	}

	rows := make([]comparisonRow, len(results))
	for i, r := range results {
		rows[i] = comparisonRow{
			Scenario:   r.Scenario.Name,
			Bin:        r.Result.Bin.String(),
			Size:       r.Result.Size.String(),
			Order:      r.Result.Order,
			BinArea:    r.BinArea,
			Efficiency: r.Efficiency,
			Unplaced:   r.UnplacedCount,
		}
	}

	if c.v.GetBool("json") {
		return printJSON(cmd, rows)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Scenario", "Size", "Bin", "Order", "Efficiency", "Unplaced").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r.Scenario, r.Size, r.Bin, r.Order, fmt.Sprintf("%.1f%%", r.Efficiency), fmt.Sprintf("%d", r.Unplaced))
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
