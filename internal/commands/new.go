package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/hatch/internal/exec"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
)

// NewCmd creates and returns the 'new' command for scaffolding applications
func NewCmd() *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "new [app-name]",
		Short: "Create a new Rails application and kickstart it",
		Long: `Creates a Rails application with rails new and applies the kickstart
recipe to it:
• devise authentication with an AdminUser model
• sidekiq background jobs and a foreman Procfile
• rspec with shoulda-matchers
• an administrate dashboard
• an initial git commit

Example:
  hatch new store`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appName := args[0]
			if err := validateAppName(appName); err != nil {
				return err
			}

			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}

			if !opts.dryRun {
				if _, err := os.Stat(appName); err == nil {
					return fmt.Errorf("directory %s already exists; use hatch apply to kickstart it", appName)
				}
			}

			output.Verbose(fmt.Sprintf("Creating new Rails application: %s", appName))

			runner := newRunner(&exec.Options{
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
				DryRun:  opts.dryRun,
				Verbose: output.IsVerbose(),
				Spinner: true,
			})
			create := exec.NewCommand(cfg.Framework.New, "new", appName, "--skip-bundle", "--skip-git").
				WithSpinner("Creating " + appName)
			if _, err := runner.Run(cmd.Context(), create); err != nil {
				return fmt.Errorf("creating application: %w", err)
			}

			if err := runRecipe(cmd, appName, "", &opts); err != nil {
				return err
			}

			output.Success(fmt.Sprintf("Created Rails application: %s", appName))
			output.Info("Next steps:")
			output.Step(fmt.Sprintf("cd %s", appName))
			output.Step("foreman start  # web and sidekiq")
			output.Step("open http://localhost:3000/admin")
			return nil
		},
	}

	addApplyFlags(cmd, &opts)

	return cmd
}

func validateAppName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("application name is empty")
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("invalid application name %q", name)
	case name != filepath.Base(name) || name == "." || name == "..":
		return fmt.Errorf("application name %q must be a plain directory name", name)
	}
	return nil
}
