package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/piwi3910/tilepack/internal/importer"
	"github.com/piwi3910/tilepack/internal/model"
	"github.com/piwi3910/tilepack/internal/project"
)

// addSettingsFlags registers the packing flags shared by pack, compare
// and estimate. Defaults shown in help are the built-in ones; values from
// config files only apply when a flag is not given.
func addSettingsFlags(fs *pflag.FlagSet) {
	d := model.DefaultSettings()
	fs.Int("max-side", d.MaxBinSide, "Maximum bin width and height")
	fs.Int("discard-step", d.DiscardStep, "Search precision, 1 is tightest")
	fs.Bool("flip", d.AllowFlip, "Allow 90 degree rotation")
	fs.String("policy", string(d.SpacePolicy), "Free space storage: growable or bounded")
	fs.Int("max-spaces", d.MaxSpaces, "Free space slots for the bounded policy")
	fs.StringSlice("orders", d.Orders, "Orderings to try, e.g. area,-width")
	fs.Bool("genetic", false, "Also evolve an ordering with a genetic search")
	fs.Int64("seed", d.Genetic.Seed, "Random seed for the genetic search")
	fs.Int("generations", d.Genetic.Generations, "Generations of the genetic search")
	fs.String("profile", "", "Named settings profile, built-in or from profiles.json")
	fs.Float64("dxf-scale", 1, "Scale applied to DXF coordinates before rounding up")
}

// resolveSettings layers the selected profile and any explicitly set viper
// keys on top of a base. The base is the project's saved settings when proj
// is set, otherwise the defaults seeded from the persisted app config.
func (c *cli) resolveSettings(proj *model.Project) (model.PackSettings, error) {
	settings := model.DefaultSettings()

	appCfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		return settings, err
	}

	profileName := ""
	if proj != nil {
		settings = proj.Settings
	} else {
		appCfg.ApplyToSettings(&settings)
		profileName = appCfg.DefaultProfile
	}
	if c.v.IsSet("profile") {
		profileName = c.v.GetString("profile")
	}
	if profileName != "" {
		store, err := project.LoadDefaultProfiles()
		if err != nil {
			return settings, err
		}
		p := store.Find(profileName)
		if p == nil {
			return settings, fmt.Errorf("unknown profile %q (available: %s)", profileName, strings.Join(store.Names(), ", "))
		}
		p.ApplyToSettings(&settings)
		c.logger.Debug("profile applied", "profile", profileName)
	}

	if c.v.IsSet("max-side") {
		settings.MaxBinSide = c.v.GetInt("max-side")
	}
	if c.v.IsSet("discard-step") {
		settings.DiscardStep = c.v.GetInt("discard-step")
	}
	if c.v.IsSet("flip") {
		settings.AllowFlip = c.v.GetBool("flip")
	}
	if c.v.IsSet("policy") {
		settings.SpacePolicy = model.SpacePolicy(c.v.GetString("policy"))
	}
	if c.v.IsSet("max-spaces") {
		settings.MaxSpaces = c.v.GetInt("max-spaces")
	}
	if c.v.IsSet("orders") {
		settings.Orders = splitList(c.v.GetStringSlice("orders"))
	}
	if c.v.IsSet("genetic") {
		settings.Genetic.Enabled = c.v.GetBool("genetic")
	}
	if c.v.IsSet("seed") {
		settings.Genetic.Seed = c.v.GetInt64("seed")
	}
	if c.v.IsSet("generations") {
		settings.Genetic.Generations = c.v.GetInt("generations")
	}
	if c.v.IsSet("stop-on-failure") {
		settings.StopOnFailure = c.v.GetBool("stop-on-failure")
	}
	return settings, nil
}

// splitList flattens comma separated entries, which is how list values
// arrive from environment variables.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// packInput is what a command read from its input argument.
type packInput struct {
	items   []model.Item
	project *model.Project // Set when the input is a saved project
}

// loadInput reads a saved project, or imports an item list through loadItems.
func (c *cli) loadInput(path string, strict bool) (packInput, error) {
	if !project.IsProjectFile(path) {
		items, err := c.loadItems(path, strict)
		if err != nil {
			return packInput{}, err
		}
		return packInput{items: items}, nil
	}

	p, err := project.LoadProject(path)
	if err != nil {
		return packInput{}, err
	}
	if len(p.Items) == 0 {
		return packInput{}, fmt.Errorf("project %s has no items", path)
	}
	c.logger.Debug("project loaded", "input", path, "project", p.Name, "count", len(p.Items))
	return packInput{items: p.Items, project: &p}, nil
}

// loadItems imports the input and logs every row-level problem. It fails
// only when nothing usable was read, or on any problem when strict is set.
func (c *cli) loadItems(path string, strict bool) ([]model.Item, error) {
	res := importer.Import(path, c.v.GetFloat64("dxf-scale"))
	for _, w := range res.Warnings {
		c.logger.Info("import note", "input", path, "detail", w)
	}
	for _, e := range res.Errors {
		c.logger.Warn("import problem", "input", path, "detail", e)
	}

	if !res.OK() {
		switch {
		case len(res.Items) == 0 && len(res.Errors) > 0:
			return nil, fmt.Errorf("no items imported from %s: %s", path, res.Errors[0])
		case len(res.Items) == 0:
			return nil, fmt.Errorf("no items imported from %s", path)
		case strict:
			return nil, fmt.Errorf("%d import problem(s) in %s, first: %s", len(res.Errors), path, res.Errors[0])
		}
	}
	c.logger.Debug("items imported", "input", path, "count", len(res.Items))
	return res.Items, nil
}
