package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/simonhull/firebird-suite/hatch"
	"github.com/simonhull/firebird-suite/hatch/internal/config"
	"github.com/simonhull/firebird-suite/hatch/internal/exec"
	"github.com/simonhull/firebird-suite/hatch/internal/logging"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
)

type configKey struct{}

// newRunner builds the command runner used by every subcommand.
// Tests replace it with a recording fake.
var newRunner = func(opts *exec.Options) exec.Runner {
	return exec.NewExecutor(opts)
}

// RootCmd creates and returns the root command for the hatch CLI
func RootCmd() *cobra.Command {
	var (
		verbose    bool
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "hatch",
		Short: "Kickstart Rails applications from a recipe",
		Long: `Hatch applies an ordered scaffolding recipe to a Rails skeleton.

The built-in kickstart recipe adds:
• devise authentication with an AdminUser model
• sidekiq background jobs and a foreman Procfile
• rspec with shoulda-matchers
• an administrate dashboard
• an initial git commit

Learn more: https://github.com/simonhull/firebird-suite`,
		Version:       hatch.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.SetVerbose(verbose)

			v := config.New()
			if err := bindFlags(v, cmd); err != nil {
				return err
			}
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}

			logging.Setup(logging.Options{Verbose: verbose, LogFile: cfg.Log.File})
			if used := config.Used(v); used != "" {
				output.Verbose("Using config file: " + used)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./hatch.yml or $XDG_CONFIG_HOME/hatch/hatch.yml)")

	return cmd
}

// flagKeys maps command flags onto config keys. Only flags the running
// command defines are bound.
var flagKeys = map[string]string{
	"template":          "template.source",
	"framework-version": "framework.version",
	"state-file":        "state.file",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func configFrom(cmd *cobra.Command) (*config.Config, error) {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg, nil
		}
	}
	return nil, errors.New("configuration not loaded")
}
