package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/tilepack/internal/model"
	"github.com/piwi3910/tilepack/internal/project"
)

func (c *cli) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, initialize, back up or restore configuration",
	}

	showCmd := &cobra.Command{
		Use:     "show",
		Short:   "Print the effective packing settings",
		Args:    cobra.NoArgs,
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.resolveSettings(nil)
			if err != nil {
				return err
			}
			if c.v.GetBool("json") {
				return printJSON(cmd, settings)
			}
			data, err := yaml.Marshal(settingsMap(settings))
			if err != nil {
				return fmt.Errorf("failed to render settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	addSettingsFlags(showCmd.Flags())
	showCmd.Flags().Bool("json", false, "Output in JSON format")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write default config files to the home directory",
		Long: `The init command writes ~/.tilepack.yaml with the default packing flags and
~/.tilepack/config.json with the default app config. Existing files are
kept unless --force is given.`,
		Args:    cobra.NoArgs,
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfigInit(cmd)
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite existing files")

	backupCmd := &cobra.Command{
		Use:   "backup <file>",
		Short: "Save the app config and custom profiles to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigBackup(cmd, args[0])
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the app config and custom profiles from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigRestore(cmd, args[0])
		},
	}

	cmd.AddCommand(showCmd, initCmd, backupCmd, restoreCmd)
	return cmd
}

func runConfigBackup(cmd *cobra.Command, path string) error {
	appCfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		return err
	}
	store, err := project.LoadDefaultProfiles()
	if err != nil {
		return err
	}
	if err := project.ExportAllData(path, appCfg, store); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backed up config and %d profile(s) to %s\n", len(store.Profiles), path)
	return nil
}

func runConfigRestore(cmd *cobra.Command, path string) error {
	backup, err := project.ImportAllData(path)
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(project.DefaultConfigPath(), backup.Config); err != nil {
		return err
	}
	if err := project.SaveProfiles(project.DefaultProfilesPath(), backup.Profiles); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored config and %d profile(s) from backup version %s\n",
		len(backup.Profiles.Profiles), backup.Version)
	return nil
}

// settingsMap keys settings by their flag names, the shape ~/.tilepack.yaml uses.
func settingsMap(s model.PackSettings) map[string]any {
	return map[string]any{
		"max-side":        s.MaxBinSide,
		"discard-step":    s.DiscardStep,
		"flip":            s.AllowFlip,
		"policy":          string(s.SpacePolicy),
		"max-spaces":      s.MaxSpaces,
		"orders":          s.Orders,
		"genetic":         s.Genetic.Enabled,
		"seed":            s.Genetic.Seed,
		"generations":     s.Genetic.Generations,
		"stop-on-failure": s.StopOnFailure,
	}
}

func (c *cli) runConfigInit(cmd *cobra.Command) error {
	force := c.v.GetBool("force")
	out := cmd.OutOrStdout()

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot locate home directory: %w", err)
	}

	yamlPath := filepath.Join(home, ".tilepack.yaml")
	w := viper.New()
	for k, v := range settingsMap(model.DefaultSettings()) {
		w.Set(k, v)
	}
	if force {
		err = w.WriteConfigAs(yamlPath)
	} else {
		err = w.SafeWriteConfigAs(yamlPath)
	}
	var exists viper.ConfigFileAlreadyExistsError
	switch {
	case errors.As(err, &exists):
		fmt.Fprintf(out, "Kept existing %s\n", yamlPath)
	case err != nil:
		return fmt.Errorf("failed to write %s: %w", yamlPath, err)
	default:
		fmt.Fprintf(out, "Wrote %s\n", yamlPath)
	}

	cfgPath := project.DefaultConfigPath()
	if _, err := os.Stat(cfgPath); err == nil && !force {
		fmt.Fprintf(out, "Kept existing %s\n", cfgPath)
		return nil
	}
	if err := project.SaveAppConfig(cfgPath, model.DefaultAppConfig()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", cfgPath)
	return nil
}
