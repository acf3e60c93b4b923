package kickstart

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/simonhull/firebird-suite/hatch/internal/exec"
	"github.com/simonhull/firebird-suite/hatch/internal/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/recipe"
)

const (
	applicationSentinel = "class Application < Rails::Application\n"
	configureSentinel   = "Rails.application.configure do\n"
	routesDraw          = "Rails.application.routes.draw do"
)

// environment inserts config into config/application.rb, or into
// config/environments/<env>.rb when env is given.
func environment(e *recipe.Env, data string, env ...string) []generator.Operation {
	if len(env) == 0 {
		return []generator.Operation{&generator.InsertOp{
			Path:     e.Path("config", "application.rb"),
			Anchor:   applicationSentinel,
			Content:  indent(data, 4),
			Position: generator.After,
		}}
	}

	ops := make([]generator.Operation, 0, len(env))
	for _, name := range env {
		ops = append(ops, &generator.InsertOp{
			Path:     e.Path("config", "environments", name+".rb"),
			Anchor:   configureSentinel,
			Content:  indent(data, 2),
			Position: generator.After,
		})
	}
	return ops
}

// route appends a routing declaration at the end of the routes block, so
// routes keep the order they are declared in.
func route(e *recipe.Env, data string) generator.Operation {
	return &generator.InsertOp{
		Path:     e.Path("config", "routes.rb"),
		Anchor:   "end",
		Content:  indent(data, 2),
		Position: generator.BeforeLast,
	}
}

// generate runs a framework generator in the project.
func generate(ctx context.Context, e *recipe.Env, args ...string) error {
	cmd := e.Command(railsBin(e), append([]string{"generate"}, args...)...).
		WithSpinner("Generating " + args[0])
	_, err := e.Runner.Run(ctx, cmd)
	return err
}

// railsCommand runs a framework task such as db:migrate.
func railsCommand(ctx context.Context, e *recipe.Env, task string) error {
	_, err := e.Runner.Run(ctx, e.Command(railsBin(e), task).WithSpinner("Running "+task))
	return err
}

// DefaultBin is the project-local framework CLI.
const DefaultBin = "bin/rails"

func railsBin(e *recipe.Env) string {
	if e.Framework.Bin == "" {
		return DefaultBin
	}
	return e.Framework.Bin
}

// indent strips the common leading whitespace from data and indents every
// non-blank line by n spaces. The result always ends in a newline.
func indent(data string, n int) string {
	lines := strings.Split(strings.TrimRight(data, "\n"), "\n")

	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lead := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || lead < common {
			common = lead
		}
	}

	pad := strings.Repeat(" ", n)
	var b strings.Builder
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(pad + l[common:] + "\n")
	}
	return b.String()
}

var versionPattern = regexp.MustCompile(`(\d+(?:\.\d+)*)(?:\.([0-9A-Za-z]+))?`)

// frameworkVersion returns the project's framework version in semver form
// ("v7.1.3"), asking the framework when it was not configured.
func frameworkVersion(ctx context.Context, e *recipe.Env) (string, error) {
	if e.Framework.Version != "" {
		v := canonicalVersion(e.Framework.Version)
		if v == "" {
			return "", fmt.Errorf("invalid framework version %q", e.Framework.Version)
		}
		return v, nil
	}

	res, err := e.Runner.Run(ctx, e.Command(railsBin(e), "version"))
	if err != nil {
		return "", fmt.Errorf("detecting framework version: %w", err)
	}
	v := canonicalVersion(res.Output)
	if v == "" {
		if e.DryRun {
			return "", errUnknownVersion
		}
		return "", fmt.Errorf("detecting framework version: unexpected output %q", strings.TrimSpace(res.Output))
	}

	e.Framework.Version = strings.TrimPrefix(v, "v")
	e.Log.Debug().Str("version", v).Msg("Detected framework version")
	return v, nil
}

var errUnknownVersion = errors.New("framework version unknown")

// canonicalVersion turns "Rails 7.1.3", "5.2" or "7.1.0.rc1" into a semver
// string, or "" when s holds no version.
func canonicalVersion(s string) string {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	parts := strings.Split(m[1], ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	v := "v" + strings.Join(parts, ".")
	if m[2] != "" {
		for len(parts) < 3 {
			parts = append(parts, "0")
		}
		v = "v" + strings.Join(parts, ".") + "-" + m[2]
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// versionAbove reports whether v is strictly greater than threshold.
func versionAbove(v, threshold string) bool {
	return semver.Compare(v, canonicalVersion(threshold)) > 0
}

// versionAtLeast reports whether v is greater than or equal to threshold.
func versionAtLeast(v, threshold string) bool {
	return semver.Compare(v, canonicalVersion(threshold)) >= 0
}

// bestEffort runs cmd and reports a tolerated failure as false.
func bestEffort(ctx context.Context, e *recipe.Env, cmd exec.Command) (bool, error) {
	_, err := e.Runner.Run(ctx, cmd)
	if err == nil {
		return true, nil
	}
	if exec.Tolerate(err) != nil {
		return false, err
	}
	e.Log.Debug().Err(err).Str("command", cmd.String()).Msg("Best-effort command failed")
	return false, nil
}
