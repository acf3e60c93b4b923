package kickstart

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/simonhull/firebird-suite/hatch/internal/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/manifest"
	"github.com/simonhull/firebird-suite/hatch/internal/output"
	"github.com/simonhull/firebird-suite/hatch/internal/recipe"
)

var (
	rootColumn      = regexp.MustCompile(`(?m):root[ \t]*$`)
	deviseSecret    = regexp.MustCompile(`  # config.secret_key = .+`)
	backtraceFilter = regexp.MustCompile(`# config.filter_gems_from_backtrace.+`)
	emailField      = regexp.MustCompile(`\bemail: Field::String`)
	formAttributes  = regexp.MustCompile(`FORM_ATTRIBUTES = \[`)
	authTodo        = regexp.MustCompile(`# TODO Add authentication logic here\.`)
)

const (
	passwordField  = "password: Field::String.with_options(searchable: false)"
	passwordForm   = "FORM_ATTRIBUTES = [\n    :password,"
	rootOnly       = "redirect_to '/', alert: 'Not authorized.' unless admin_user_signed_in? && current_admin_user.root?"
	shouldaInclude = "config.include(Shoulda::Matchers::ActiveModel, type: :model)\n" +
		"  config.include(Shoulda::Matchers::ActiveRecord, type: :model)"
	sidekiqRoute = `authenticate :admin_user, lambda { |u| u.root? } do
  mount Sidekiq::Web => '/sidekiq'
end
`
	helpersHook = `# Expose our application's helpers to Administrate
config.to_prepare do
  Administrate::ApplicationController.helper %s::Application.helpers
end
`
)

func addDependencies(ctx context.Context, e *recipe.Env) error {
	deps := Dependencies()

	data, err := e.Paths.ReadFile(manifest.FileName)
	switch {
	case err == nil:
		extra, err := manifest.Parse(data)
		if err != nil {
			return err
		}
		e.Log.Debug().Int("count", len(extra)).Msg("Loaded extra dependencies")
		deps = append(deps, extra...)
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	return e.Apply(ctx, manifest.Op(e.Path("Gemfile"), deps))
}

func bundleInstall(ctx context.Context, e *recipe.Env) error {
	_, err := e.Runner.Run(ctx, e.Command("bundle", "install").WithSpinner("Installing gems"))
	return err
}

func setApplicationName(ctx context.Context, e *recipe.Env) error {
	version, err := frameworkVersion(ctx, e)
	if err != nil && !errors.Is(err, errUnknownVersion) {
		return err
	}

	parent := "module_parent_name"
	if version != "" && !versionAtLeast(version, "6.0") {
		parent = "parent_name"
	}

	if err := e.Apply(ctx, environment(e, "config.application_name = Rails.application.class."+parent)...); err != nil {
		return err
	}
	output.Info("You can change the application name inside ./config/application.rb")
	return nil
}

func stopSpring(ctx context.Context, e *recipe.Env) error {
	ok, err := bestEffort(ctx, e, e.Command("spring", "stop"))
	if err != nil {
		return err
	}
	if !ok {
		output.Warn("Could not stop spring; continuing")
	}
	return nil
}

func addAuthentication(ctx context.Context, e *recipe.Env) error {
	if err := generate(ctx, e, "devise:install"); err != nil {
		return err
	}

	ops := environment(e, "config.action_mailer.default_url_options = { host: 'localhost', port: 3000 }", "development")
	ops = append(ops, route(e, "root to: 'home#index'"))
	if err := e.Apply(ctx, ops...); err != nil {
		return err
	}

	if err := generate(ctx, e, "devise", "AdminUser", "first_name", "last_name", "root:boolean"); err != nil {
		return err
	}

	if err := patchRootDefault(ctx, e); err != nil {
		return err
	}

	version, err := frameworkVersion(ctx, e)
	switch {
	case errors.Is(err, errUnknownVersion):
		e.Log.Debug().Msg("Framework version unknown, leaving devise secret key alone")
		return nil
	case err != nil:
		return err
	case !versionAbove(version, "5.2"):
		e.Log.Debug().Str("version", version).Msg("Framework version at or below 5.2, leaving devise secret key alone")
		return nil
	}

	return e.Apply(ctx, &generator.SubstituteOp{
		Path:        e.Path("config", "initializers", "devise.rb"),
		Pattern:     deviseSecret,
		Replacement: "  config.secret_key = Rails.application.credentials.secret_key_base",
		Guard:       "credentials.secret_key_base",
	})
}

// patchRootDefault defaults the root flag to false in the newest migration.
func patchRootDefault(ctx context.Context, e *recipe.Env) error {
	migration, err := generator.NewestFile(e.Path("db", "migrate"), "*.rb")
	if err != nil {
		if e.DryRun {
			fmt.Fprintln(e.Out, "✓ [DRY RUN] Patch newest migration (:root → :root, default: false)")
			return nil
		}
		return fmt.Errorf("finding AdminUser migration: %w", err)
	}

	return e.Apply(ctx, &generator.SubstituteOp{
		Path:        migration,
		Pattern:     rootColumn,
		Replacement: ":root, default: false",
		Guard:       ":root, default: false",
	})
}

func addBackgroundJobs(ctx context.Context, e *recipe.Env) error {
	ops := environment(e, "config.active_job.queue_adapter = :sidekiq")
	ops = append(ops,
		&generator.InsertOp{
			Path:     e.Path("config", "routes.rb"),
			Anchor:   routesDraw,
			Content:  "require 'sidekiq/web'\n\n",
			Position: generator.Before,
		},
		route(e, sidekiqRoute),
	)
	return e.Apply(ctx, ops...)
}

func addProcfile(ctx context.Context, e *recipe.Env) error {
	root, err := e.Paths.Lookup("Procfile")
	if err != nil {
		return err
	}
	return e.Apply(ctx, &generator.CopyFileOp{
		Source:    root.FS,
		Name:      "Procfile",
		Dest:      e.Path("Procfile"),
		Conflicts: e.Resolver(),
	})
}

func installRSpec(ctx context.Context, e *recipe.Env) error {
	return generate(ctx, e, "rspec:install")
}

func installShouldaMatchers(ctx context.Context, e *recipe.Env) error {
	return e.Apply(ctx, &generator.SubstituteOp{
		Path:        e.Path("spec", "rails_helper.rb"),
		Pattern:     backtraceFilter,
		Replacement: shouldaInclude,
		Guard:       "Shoulda::Matchers::ActiveModel",
	})
}

// templateData is what .tmpl files see.
type templateData struct {
	AppName  string // my_app
	AppConst string // MyApp
	AppTitle string // My app
}

func copyTemplates(ctx context.Context, e *recipe.Env) error {
	data := templateData{
		AppName:  e.AppName,
		AppConst: e.AppConst,
		AppTitle: generator.Humanize(e.AppName),
	}

	var ops []generator.Operation
	for _, dir := range []string{"app", "lib"} {
		root, err := e.Paths.Lookup(dir)
		if err != nil {
			return err
		}
		ops = append(ops, &generator.CopyDirOp{
			Source:    root.FS,
			Dir:       dir,
			Dest:      e.Path(dir),
			Data:      data,
			Conflicts: e.Resolver(),
		})
	}
	if err := e.Apply(ctx, ops...); err != nil {
		return err
	}

	return e.Apply(ctx,
		route(e, "get '/terms', to: 'home#terms'"),
		route(e, "get '/privacy', to: 'home#privacy'"),
	)
}

// checkMigrations requires the templates to be in place and at least one
// migration to exist before the database is touched.
func checkMigrations(ctx context.Context, e *recipe.Env) error {
	if err := recipe.RequireApplied("templates")(ctx, e); err != nil {
		return err
	}
	if _, err := generator.NewestFile(e.Path("db", "migrate"), "*.rb"); err != nil {
		return fmt.Errorf("no migrations in db/migrate")
	}
	return nil
}

func migrate(ctx context.Context, e *recipe.Env) error {
	if err := railsCommand(ctx, e, "db:create"); err != nil {
		return err
	}
	return railsCommand(ctx, e, "db:migrate")
}

func addAdministrate(ctx context.Context, e *recipe.Env) error {
	if err := generate(ctx, e, "administrate:install"); err != nil {
		return err
	}

	dashboard := e.Path("app", "dashboards", "admin_user_dashboard.rb")
	return e.Apply(ctx,
		&generator.SubstituteOp{
			Path:        dashboard,
			Pattern:     emailField,
			Replacement: "email: Field::String,\n    " + passwordField,
			Guard:       passwordField,
		},
		&generator.SubstituteOp{
			Path:        dashboard,
			Pattern:     formAttributes,
			Replacement: passwordForm,
			Guard:       passwordForm,
		},
		&generator.SubstituteOp{
			Path:        e.Path("app", "controllers", "admin", "application_controller.rb"),
			Pattern:     authTodo,
			Replacement: rootOnly,
			Guard:       rootOnly,
		},
	)
}

func addAdministrateHelpers(ctx context.Context, e *recipe.Env) error {
	hook := fmt.Sprintf(helpersHook, e.AppConst)
	return e.Apply(ctx, environment(e, hook)...)
}

func commit(ctx context.Context, e *recipe.Env) error {
	for _, args := range [][]string{
		{"init"},
		{"add", "."},
		{"commit", "-m", "Initial commit"},
	} {
		if _, err := e.Exec(ctx, "git", args...); err != nil {
			return err
		}
	}
	return nil
}
