package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/tilepack/internal/model"
	"github.com/piwi3910/tilepack/internal/project"
)

func (c *cli) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage named settings profiles",
		Long: `Profiles are named packing settings selected with --profile. Built-in
profiles are always available; custom ones live in ~/.tilepack/profiles.json.

Example:
  tilepack profile save ui-1k --max-side 1024 --orders area,-height
  tilepack profile export ui-1k ui-1k.json
  tilepack profile import ui-1k.json`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadDefaultProfiles()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range store.All() {
				kind := "custom"
				if p.IsBuiltIn {
					kind = "built-in"
				}
				fmt.Fprintf(out, "%-12s %-9s max %d, step %d, %s  %s\n",
					p.Name, kind, p.Settings.MaxBinSide, p.Settings.DiscardStep, p.Settings.SpacePolicy, p.Description)
			}
			return nil
		},
	}

	saveCmd := &cobra.Command{
		Use:     "save <name>",
		Short:   "Save the settings given by flags as a custom profile",
		Args:    cobra.ExactArgs(1),
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.resolveSettings(nil)
			if err != nil {
				return err
			}
			p := model.NewProfile(args[0], c.v.GetString("description"), settings)
			return c.storeProfile(cmd, p, "Saved")
		},
	}
	addSettingsFlags(saveCmd.Flags())
	saveCmd.Flags().String("description", "", "Profile description")

	removeCmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a custom profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadDefaultProfiles()
			if err != nil {
				return err
			}
			if !store.Remove(args[0]) {
				return fmt.Errorf("no custom profile %q", args[0])
			}
			if err := project.SaveProfiles(project.DefaultProfilesPath(), store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %s\n", args[0])
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <name> <file>",
		Short: "Write one profile to a file for sharing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadDefaultProfiles()
			if err != nil {
				return err
			}
			p := store.Find(args[0])
			if p == nil {
				return fmt.Errorf("unknown profile %q", args[0])
			}
			if err := project.ExportProfile(args[1], *p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported profile %s to %s\n", p.Name, args[1])
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add a shared profile, replacing a custom one of the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.ImportProfile(args[0])
			if err != nil {
				return err
			}
			return c.storeProfile(cmd, p, "Imported")
		},
	}

	cmd.AddCommand(listCmd, saveCmd, removeCmd, exportCmd, importCmd)
	return cmd
}

// storeProfile adds p to the custom profiles on disk.
func (c *cli) storeProfile(cmd *cobra.Command, p model.Profile, verb string) error {
	store, err := project.LoadDefaultProfiles()
	if err != nil {
		return err
	}
	if err := store.Add(p); err != nil {
		return err
	}
	if err := project.SaveProfiles(project.DefaultProfilesPath(), store); err != nil {
		return err
	}
	c.logger.Debug("profile stored", "name", p.Name, "count", len(store.Profiles))
	fmt.Fprintf(cmd.OutOrStdout(), "%s profile %s\n", verb, p.Name)
	return nil
}
