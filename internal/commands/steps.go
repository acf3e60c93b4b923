package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/recipe"
	"github.com/simonhull/firebird-suite/hatch/internal/recipes/kickstart"
)

// StepsCmd lists the recipe steps and which of them a project has applied.
func StepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steps [dir]",
		Short: "List the kickstart steps",
		Long: `Lists the kickstart steps in the order they run. Inside a project the
steps recorded in the marker file are shown as applied.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			path := cfg.State.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}
			r := kickstart.Recipe()
			state, err := recipe.LoadState(path, r.Name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, s := range recipe.Statuses(r, state) {
				mark := " "
				if s.Applied {
					mark = "✓"
				}
				fmt.Fprintf(out, "%s %2d. %-18s %s\n", mark, i+1, s.Step.Name, s.Step.Description)
			}
			output.Verbose("State file: " + path)
			return nil
		},
	}

	return cmd
}
