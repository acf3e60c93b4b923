package kickstart

import (
	"github.com/simonhull/firebird-suite/hatch/internal/manifest"
)

// Dependencies returns the gems kickstart adds, in declaration order.
func Dependencies() []manifest.Dependency {
	return []manifest.Dependency{
		manifest.Gem("administrate", "~> 0.11.0"),
		manifest.Gem("devise", "~> 4.5.0"),
		manifest.Gem("fast_jsonapi", "~> 1.5"),
		manifest.Gem("foreman", "~> 0.84.0"),
		manifest.Gem("sidekiq", "~> 5.1", ">= 5.1.3"),
		manifest.Gem("sidekiq-cron", "~> 0.6.3"),

		manifest.Gem("rspec-rails").In(manifest.DevelopmentTest),
		manifest.Gem("shoulda-matchers").In(manifest.DevelopmentTest),
		manifest.Gem("factory_bot_rails").In(manifest.DevelopmentTest),
		manifest.Gem("vcr").In(manifest.DevelopmentTest),
		manifest.Gem("timecop").In(manifest.DevelopmentTest),
		manifest.Gem("simplecov").In(manifest.DevelopmentTest).WithoutRequire(),
		manifest.Gem("simplecov-console").In(manifest.DevelopmentTest).WithoutRequire(),
		manifest.Gem("database_cleaner").In(manifest.DevelopmentTest),
		manifest.Gem("webmock").In(manifest.DevelopmentTest),
		manifest.Gem("dotenv-rails").In(manifest.DevelopmentTest),

		manifest.Gem("bullet").In(manifest.Development),
		manifest.Gem("guard-rspec").In(manifest.Development).WithoutRequire(),
		manifest.Gem("rubycritic", "3.4.0").In(manifest.Development).WithoutRequire(),
		manifest.Gem("spring-commands-rspec").In(manifest.Development),

		manifest.Gem("lograge"),
	}
}
