package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/tilepack/internal/engine"
	"github.com/piwi3910/tilepack/internal/export"
	"github.com/piwi3910/tilepack/internal/model"
	"github.com/piwi3910/tilepack/internal/project"
)

const recentProjectsLimit = 10

func (c *cli) newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <input>",
		Short: "Pack items and write the results",
		Long: `The pack command imports items, searches for the smallest bin that holds
them and writes any requested outputs.

Example:
  tilepack pack sprites/ --atlas atlas.png --manifest atlas.json
  tilepack pack parts.csv --max-side 2048 --orders area,-height --pdf preview.pdf
  tilepack pack glyphs.xlsx --profile fast --strict
  tilepack pack ui.tilepack.json --merge icons.tilepack.json --save-project ui.tilepack.json

An input ending in .tilepack.json is read as a saved project: its items
and settings are used, and flags still override the settings.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPack(cmd, args[0])
		},
	}

	fs := cmd.Flags()
	addSettingsFlags(fs)
	fs.Bool("stop-on-failure", false, "Stop placing items at the first one that does not fit")
	fs.Bool("dont-sort", false, "Pack in input order, skipping the ordering heuristics")
	fs.Bool("strict", false, "Fail on import problems or unplaced items")
	fs.Bool("json", false, "Print the manifest to stdout instead of a summary")
	fs.String("manifest", "", "Write a JSON manifest to this path")
	fs.String("xlsx", "", "Write an Excel report to this path")
	fs.String("pdf", "", "Write a PDF preview to this path")
	fs.String("atlas", "", "Write the composed PNG atlas to this path")
	fs.String("save-project", "", "Save items, settings and result as a project file")
	fs.String("merge", "", "Add the items of this project file before packing")
	return cmd
}

func (c *cli) runPack(cmd *cobra.Command, input string) error {
	strict := c.v.GetBool("strict")
	in, err := c.loadInput(input, strict)
	if err != nil {
		return err
	}
	if merge := c.v.GetString("merge"); merge != "" {
		if in, err = c.mergeProject(in, merge); err != nil {
			return err
		}
	}
	items := in.items

	settings, err := c.resolveSettings(in.project)
	if err != nil {
		return err
	}

	opt := engine.New(settings, engine.WithLogger(c.logger))
	var result model.PackResult
	if c.v.GetBool("dont-sort") {
		result, err = opt.OptimizeInOrder(items)
	} else {
		result, err = opt.Optimize(items)
	}
	if err != nil {
		return fmt.Errorf("packing failed: %w", err)
	}

	if err := c.writeOutputs(result, settings); err != nil {
		return err
	}
	if path := c.v.GetString("save-project"); path != "" {
		if err := c.saveProject(path, input, in, settings, result); err != nil {
			return err
		}
	}

	if c.v.GetBool("json") {
		if err := export.WriteManifest(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		printSummary(cmd, result, len(items))
	}

	if strict && !result.Complete() {
		return fmt.Errorf("%d item(s) could not be placed", len(result.Unplaced))
	}
	return nil
}

func (c *cli) writeOutputs(result model.PackResult, settings model.PackSettings) error {
	outputs := []struct {
		key   string
		write func(string) error
	}{
		{"manifest", func(p string) error { return export.ExportManifest(p, result) }},
		{"xlsx", func(p string) error { return export.ExportXLSX(p, result) }},
		{"pdf", func(p string) error { return export.ExportPDF(p, result, settings) }},
		{"atlas", func(p string) error { return export.ExportAtlas(p, result) }},
	}
	for _, o := range outputs {
		path := c.v.GetString(o.key)
		if path == "" {
			continue
		}
		if err := o.write(path); err != nil {
			return fmt.Errorf("%s export failed: %w", o.key, err)
		}
		c.logger.Info("output written", "kind", o.key, "path", path)
	}
	return nil
}

// mergeProject adds the items of the project at path that in does not
// already hold, matched by ID.
func (c *cli) mergeProject(in packInput, path string) (packInput, error) {
	base := model.NewProject()
	if in.project != nil {
		base = *in.project
	}
	base.Items = in.items

	merged, err := project.MergeProjectItems(path, base)
	if err != nil {
		return in, fmt.Errorf("merge failed: %w", err)
	}
	c.logger.Info("project merged", "path", path, "added", len(merged.Items)-len(in.items))

	if in.project != nil {
		in.project = &merged
	}
	in.items = merged.Items
	return in, nil
}

func (c *cli) saveProject(path, input string, in packInput, settings model.PackSettings, result model.PackResult) error {
	p := model.NewProject()
	if in.project != nil {
		p = *in.project
	} else {
		p.Name = projectName(input)
	}
	p.Items = in.items
	p.Settings = settings
	p.Result = &result
	if err := project.SaveProject(path, p); err != nil {
		return err
	}

	cfgPath := project.DefaultConfigPath()
	appCfg, err := project.LoadAppConfig(cfgPath)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	appCfg.AddRecentProject(abs, recentProjectsLimit)
	return project.SaveAppConfig(cfgPath, appCfg)
}

// projectName derives a project name from the input's base name.
func projectName(input string) string {
	base := filepath.Base(input)
	if project.IsProjectFile(base) {
		return base[:len(base)-len(project.Extension)]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func printSummary(cmd *cobra.Command, result model.PackResult, total int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Packed %d of %d items into %s (bin %s, order %s, efficiency %.1f%%)\n",
		len(result.Placed), total, result.Size, result.Bin, result.Order, result.Efficiency())
	if result.Fallback {
		fmt.Fprintln(out, "No ordering fit every item; showing the best partial packing.")
	}
	for _, it := range result.Unplaced {
		fmt.Fprintf(out, "  unplaced: %s %s\n", it.Label, it.Submitted())
	}
}

// printJSON outputs v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
