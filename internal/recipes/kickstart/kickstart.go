// Package kickstart is the built-in Rails recipe: devise authentication,
// sidekiq background jobs, an administrate dashboard, a foreman Procfile
// and an rspec test scaffold, committed as a fresh git repository.
package kickstart

import (
	"github.com/simonhull/firebird-suite/hatch/internal/recipe"
)

// Name identifies the recipe in the state file.
const Name = "kickstart"

// Recipe returns the kickstart steps in the order they must run.
func Recipe() recipe.Recipe {
	return recipe.Recipe{
		Name: Name,
		Steps: []recipe.Step{
			{Name: "dependencies", Description: "Declare gems", Run: addDependencies},
			{Name: "bundle", Description: "Install gems", Run: bundleInstall},
			{Name: "application-name", Description: "Set application name", Run: setApplicationName},
			{Name: "stop-spring", Description: "Stop spring", Run: stopSpring},
			{Name: "authentication", Description: "Install devise and the AdminUser model", Run: addAuthentication},
			{Name: "background-jobs", Description: "Configure sidekiq", Run: addBackgroundJobs},
			{Name: "process-file", Description: "Add Procfile", Run: addProcfile},
			{Name: "test-framework", Description: "Install rspec", Run: installRSpec},
			{Name: "test-matchers", Description: "Wire shoulda-matchers", Run: installShouldaMatchers},
			{Name: "templates", Description: "Copy app and lib templates", Run: copyTemplates},
			{
				Name:        "database",
				Description: "Create and migrate the database",
				Check:       checkMigrations,
				Run:         migrate,
			},
			{
				Name:        "admin-dashboard",
				Description: "Install administrate",
				Check:       recipe.RequireApplied("database"),
				Run:         addAdministrate,
			},
			{Name: "admin-helpers", Description: "Expose application helpers to administrate", Run: addAdministrateHelpers},
			{Name: "commit", Description: "Create the initial commit", Run: commit},
		},
	}
}
