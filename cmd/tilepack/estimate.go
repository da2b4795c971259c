package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/tilepack/internal/model"
)

func (c *cli) newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate <input>",
		Short: "Show a quick lower bound without packing",
		Long: `The estimate command sums item areas and reports the smallest square bin
that could possibly hold them, along with items too large for the maximum
bin side.

Example:
  tilepack estimate sprites/ --max-side 2048`,
		Args:    cobra.ExactArgs(1),
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEstimate(cmd, args[0])
		},
	}
	addSettingsFlags(cmd.Flags())
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func (c *cli) runEstimate(cmd *cobra.Command, input string) error {
	in, err := c.loadInput(input, false)
	if err != nil {
		return err
	}
	settings, err := c.resolveSettings(in.project)
	if err != nil {
		return err
	}

	est := model.CalculateEstimate(in.items, settings.MaxBinSide, settings.AllowFlip)
	if c.v.GetBool("json") {
		return printJSON(cmd, est)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Items:           %d\n", est.ItemCount)
	fmt.Fprintf(out, "Total area:      %d\n", est.TotalArea)
	fmt.Fprintf(out, "Largest side:    %d\n", est.LargestSide)
	fmt.Fprintf(out, "Min square bin:  %dx%d\n", est.MinSquareSide, est.MinSquareSide)
	fmt.Fprintf(out, "Max bin fill:    %.1f%%\n", est.FillRatio)
	if est.Oversized > 0 {
		fmt.Fprintf(out, "Oversized items: %d (larger than %dx%d)\n", est.Oversized, settings.MaxBinSide, settings.MaxBinSide)
	}
	return nil
}
