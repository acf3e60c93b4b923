package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestProject represents a temporary Rails project for testing
type TestProject struct {
	Root string // Parent temp directory
	Name string
	t    *testing.T
}

// NewTestProject creates Root/Name as an empty project directory
func NewTestProject(t *testing.T, name string) *TestProject {
	t.Helper()

	p := &TestProject{Root: t.TempDir(), Name: name, t: t}
	if err := os.MkdirAll(p.Dir(), 0755); err != nil {
		t.Fatalf("creating project dir: %v", err)
	}
	return p
}

// Dir returns the project directory.
func (p *TestProject) Dir() string {
	return filepath.Join(p.Root, p.Name)
}

// Path joins rel onto the project directory.
func (p *TestProject) Path(rel string) string {
	return filepath.Join(p.Dir(), filepath.FromSlash(rel))
}

// WriteFile writes a file into the project, creating parent directories.
func (p *TestProject) WriteFile(rel, content string) {
	p.t.Helper()

	path := p.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		p.t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		p.t.Fatalf("writing %s: %v", rel, err)
	}
}

// ReadFile reads a file from the project
func (p *TestProject) ReadFile(rel string) string {
	p.t.Helper()

	content, err := os.ReadFile(p.Path(rel))
	if err != nil {
		p.t.Fatalf("reading %s: %v", rel, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the project
func (p *TestProject) FileExists(rel string) bool {
	p.t.Helper()

	_, err := os.Stat(p.Path(rel))
	return err == nil
}

// Snapshot returns every file in the project keyed by slash path. The .git
// directory is left out.
func (p *TestProject) Snapshot() map[string]string {
	p.t.Helper()

	files := map[string]string{}
	err := filepath.WalkDir(p.Dir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(p.Dir(), path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		p.t.Fatalf("snapshot: %v", err)
	}
	return files
}

// ScaffoldRails writes the files `rails new --skip-bundle --skip-git` leaves
// behind that recipes patch.
func (p *TestProject) ScaffoldRails() {
	p.t.Helper()

	module := camel(p.Name)
	for rel, content := range map[string]string{
		"Gemfile": `source "https://rubygems.org"

ruby "3.2.2"

gem "rails", "~> 7.1.3"
gem "pg", "~> 1.1"
gem "puma", ">= 5.0"

group :development, :test do
  gem "debug", platforms: %i[ mri windows ]
end

group :development do
  gem "web-console"
end
`,
		"config/application.rb": `require_relative "boot"

require "rails/all"

Bundler.require(*Rails.groups)

module ` + module + `
  class Application < Rails::Application
    config.load_defaults 7.1
  end
end
`,
		"config/environments/development.rb": `require "active_support/core_ext/integer/time"

Rails.application.configure do
  config.enable_reloading = true
end
`,
		"config/routes.rb": `Rails.application.routes.draw do
  # Define your application routes per the DSL in https://guides.rubyonrails.org/routing.html
end
`,
		".gitignore": "/log/*\n/tmp/*\n",
		"bin/rails":  "#!/usr/bin/env ruby\n",
	} {
		p.WriteFile(rel, content)
	}
}

func camel(s string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' }) {
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}
