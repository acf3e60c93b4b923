package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/hatch/internal/manifest"
	"github.com/simonhull/firebird-suite/hatch/internal/recipes/kickstart"
)

// DepsCmd prints the Gemfile lines the recipe declares.
func DepsCmd() *cobra.Command {
	var extra string

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Print the gems the kickstart recipe adds",
		Long: `Prints the Gemfile stanza the dependencies step merges into a project.

With --file, the declarations from a dependencies.yml are appended.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := kickstart.Dependencies()
			if extra != "" {
				data, err := os.ReadFile(extra)
				if err != nil {
					return fmt.Errorf("reading %s: %w", extra, err)
				}
				more, err := manifest.Parse(data)
				if err != nil {
					return err
				}
				deps = append(deps, more...)
			}
			if err := manifest.ValidateAll(deps); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), manifest.Render(deps))
			return nil
		},
	}

	cmd.Flags().StringVar(&extra, "file", "", "Extra declarations ("+manifest.FileName+" format)")

	return cmd
}
