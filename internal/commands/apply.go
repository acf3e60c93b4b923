package commands

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/hatch/internal/exec"
	"github.com/simonhull/firebird-suite/hatch/internal/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/logging"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
	"github.com/simonhull/firebird-suite/hatch/internal/recipe"
	"github.com/simonhull/firebird-suite/hatch/internal/recipes/kickstart"
	"github.com/simonhull/firebird-suite/hatch/internal/source"
	"github.com/simonhull/firebird-suite/hatch/templates"
)

// applyOptions holds the flags shared by new and apply.
type applyOptions struct {
	template         string
	frameworkVersion string
	stateFile        string
	dryRun           bool
	diff             bool
	lenient          bool
	fresh            bool
	interactive      bool
	keepExisting     bool

	lockedVersion string // From Gemfile.lock; used when no version is configured
	appConst      string // Module from config/application.rb
}

func addApplyFlags(cmd *cobra.Command, o *applyOptions) {
	f := cmd.Flags()
	f.StringVar(&o.template, "template", "", "Template source: a local path or a git URL with #ref or /tree/ref")
	f.StringVar(&o.frameworkVersion, "framework-version", "", "Rails version to assume instead of asking bin/rails")
	f.StringVar(&o.stateFile, "state-file", "", "Step marker file relative to the project (default tmp/hatch.toml)")
	f.BoolVar(&o.dryRun, "dry-run", false, "Print what would happen without changing anything")
	f.BoolVar(&o.diff, "diff", false, "Show a diff for every file change")
	f.BoolVar(&o.lenient, "lenient", false, "Warn instead of failing when a patch matches nothing")
	f.BoolVar(&o.fresh, "fresh", false, "Ignore the step marker and run every step")
	f.BoolVar(&o.interactive, "interactive", false, "Ask before replacing files that differ from the templates")
	f.BoolVar(&o.keepExisting, "keep-existing", false, "Never replace files that differ from the templates")
	cmd.MarkFlagsMutuallyExclusive("interactive", "keep-existing")
}

// conflicts picks how template copies treat files that already differ.
// Nil means overwrite.
func (o *applyOptions) conflicts(cmd *cobra.Command) *generator.Resolver {
	switch {
	case o.interactive:
		return generator.NewResolverWith(&generator.PromptStrategy{In: cmd.InOrStdin(), Out: output.Writer()})
	case o.keepExisting:
		return generator.NewResolverWith(generator.SkipStrategy{})
	}
	return nil
}

// ApplyCmd creates the 'apply' command, which runs the recipe against an
// existing Rails skeleton.
func ApplyCmd() *cobra.Command {
	var (
		opts applyOptions
		name string
	)

	cmd := &cobra.Command{
		Use:   "apply [dir]",
		Short: "Apply the kickstart recipe to an existing Rails app",
		Long: `Applies the kickstart recipe to a Rails skeleton, by default the
current directory.

Steps already recorded in tmp/hatch.toml are skipped, so an interrupted run
can be resumed by running apply again. Use --fresh to start over.

Examples:
  hatch apply
  hatch apply ./store --name store
  hatch apply --template https://github.com/acme/hatch-templates#v2
  hatch apply --dry-run --diff`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("project directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("project directory: %s is not a directory", dir)
			}

			app, err := project.DetectRails(dir)
			if err != nil {
				return err
			}
			if name == "" && app.Module != "" {
				name = generator.Underscore(app.Module)
			}
			opts.lockedVersion = app.Version
			opts.appConst = app.Module

			if err := runRecipe(cmd, dir, name, &opts); err != nil {
				return err
			}
			output.Success("Kickstarted " + displayName(dir, name))
			return nil
		},
	}

	addApplyFlags(cmd, &opts)
	cmd.Flags().StringVar(&name, "name", "", "Application name (default: derived from the module in config/application.rb)")

	return cmd
}

// runRecipe applies the kickstart recipe to root with the loaded
// configuration and the command's flags.
func runRecipe(cmd *cobra.Command, root, name string, o *applyOptions) error {
	cfg, err := configFrom(cmd)
	if err != nil {
		return err
	}

	verbose := output.IsVerbose()
	runner := newRunner(&exec.Options{
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
		DryRun:  o.dryRun,
		Verbose: verbose,
		Spinner: true,
	})
	// The template checkout only reads, so it runs for real in a dry run.
	fetcher := newRunner(&exec.Options{
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
		Verbose: verbose,
		Spinner: true,
	})

	log := logging.Get("commands")
	log.Debug().
		Str("root", root).
		Str("template", cfg.Template.Source).
		Bool("strict", cfg.Patch.Strict).
		Msg("Applying kickstart")

	return recipe.Run(cmd.Context(), kickstart.Recipe(), recipe.Options{
		Root:      root,
		AppName:   name,
		AppConst:  o.appConst,
		Template:  cfg.Template.Source,
		Fresh:     o.fresh,
		DryRun:    o.dryRun,
		Lenient:   o.lenient || !cfg.Patch.Strict,
		ShowDiff:  o.diff,
		StateFile: cfg.State.File,
		Framework: recipe.Framework{
			Bin:     cfg.Framework.Bin,
			New:     cfg.Framework.New,
			Version: cmp.Or(cfg.Framework.Version, o.lockedVersion),
		},
		Conflicts: o.conflicts(cmd),
		Runner:    runner,
		Resolver:  source.NewResolver(fetcher).WithLogger(log),
		Bundled:   templates.FS(),
		Log:       &log,
	})
}

func displayName(dir, name string) string {
	if name != "" {
		return name
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return filepath.Base(abs)
	}
	return dir
}
