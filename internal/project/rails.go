// Package project inspects an existing Rails application before a recipe
// runs against it.
package project

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

// RailsApp contains what hatch needs to know about a Rails application
type RailsApp struct {
	Root    string // Absolute project directory
	Module  string // Application module from config/application.rb (e.g., "AcmeStore")
	Version string // Locked rails version from Gemfile.lock, if any
}

var (
	modulePattern = regexp.MustCompile(`^module\s+([A-Z]\w*)\s*$`)
	lockPattern   = regexp.MustCompile(`^    rails \(([^)]+)\)$`)
)

// NotRailsError reports a directory that does not look like a Rails app.
type NotRailsError struct {
	Root    string
	Missing string
}

func (e *NotRailsError) Error() string {
	return fmt.Sprintf("%s is not a Rails application (%s missing)", e.Root, e.Missing)
}

// IsRailsApp checks if a directory contains config/application.rb and a Gemfile
func IsRailsApp(root string) bool {
	_, err := DetectRails(root)
	return err == nil
}

// DetectRails checks for the files every Rails skeleton has and reads the
// application module and locked version.
func DetectRails(root string) (*RailsApp, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	for _, rel := range []string{"Gemfile", filepath.Join("config", "application.rb")} {
		if _, err := os.Stat(filepath.Join(abs, rel)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &NotRailsError{Root: abs, Missing: filepath.ToSlash(rel)}
			}
			return nil, fmt.Errorf("failed to inspect %s: %w", rel, err)
		}
	}

	app := &RailsApp{Root: abs}

	data, err := os.ReadFile(filepath.Join(abs, "config", "application.rb"))
	if err != nil {
		return nil, fmt.Errorf("failed to read config/application.rb: %w", err)
	}
	app.Module = firstSubmatch(data, modulePattern)

	lock, err := os.ReadFile(filepath.Join(abs, "Gemfile.lock"))
	switch {
	case err == nil:
		app.Version = firstSubmatch(lock, lockPattern)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read Gemfile.lock: %w", err)
	}

	return app, nil
}

func firstSubmatch(data []byte, re *regexp.Regexp) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if m := re.FindStringSubmatch(sc.Text()); m != nil {
			return m[1]
		}
	}
	return ""
}
