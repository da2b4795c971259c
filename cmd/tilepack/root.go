package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

// cli carries the state shared by all commands of one invocation.
type cli struct {
	v      *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{
		v:      viper.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	root := &cobra.Command{
		Use:   "tilepack",
		Short: "Pack rectangles into a single near-minimal bin",
		Long: `tilepack finds a small bin that holds every input rectangle, trying
several item orderings and keeping the one with the smallest bin area.

Input is a CSV or Excel item list (label, width, height, quantity, source),
a DXF drawing, or a directory of PNG/JPEG/GIF images.

Settings are layered: built-in defaults, ~/.tilepack/config.json, the
selected profile, ~/.tilepack.yaml (or --config), TILEPACK_* environment
variables, then command line flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.initConfig(); err != nil {
				return err
			}
			logger, err := c.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default $HOME/.tilepack.yaml)")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.Bool("log-json", false, "Write logs as JSON")
	_ = c.v.BindPFlags(pf)

	root.AddCommand(
		c.newPackCmd(),
		c.newCompareCmd(),
		c.newEstimateCmd(),
		c.newConfigCmd(),
		c.newProfileCmd(),
	)
	return root
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bindFlags binds the flags of the command being run. Commands share flag
// names, so binding happens per invocation rather than at construction.
func (c *cli) bindFlags(cmd *cobra.Command, _ []string) error {
	return c.v.BindPFlags(cmd.Flags())
}

func (c *cli) initConfig() error {
	explicit := c.v.GetString("config")
	if explicit != "" {
		c.v.SetConfigFile(explicit)
	} else if home, err := os.UserHomeDir(); err == nil {
		c.v.SetConfigFile(filepath.Join(home, ".tilepack.yaml"))
		c.v.SetConfigType("yaml")
	}

	c.v.SetEnvPrefix("TILEPACK")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		// The default config file is optional
		if explicit == "" && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func (c *cli) newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", c.v.GetString("log-level"))
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.v.GetBool("log-json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
