package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routesRB = `Rails.application.routes.draw do
  # For details on the DSL available within this file, see https://guides.rubyonrails.org/routing.html
end
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func run(t *testing.T, op Operation) error {
	t.Helper()
	ctx := context.Background()
	if err := op.Validate(ctx, false); err != nil {
		return err
	}
	return op.Execute(ctx)
}

func TestSubstituteOp_ReplacesEveryMatch(t *testing.T) {
	path := writeFixture(t, "migration.rb", "t.boolean :root\nt.boolean :root\n")

	op := &SubstituteOp{
		Path:        path,
		Pattern:     regexp.MustCompile(`(?m):root$`),
		Replacement: ":root, default: false",
	}
	require.NoError(t, run(t, op))

	assert.Equal(t, "t.boolean :root, default: false\nt.boolean :root, default: false\n", readFixture(t, path))
}

func TestSubstituteOp_ZeroMatchLeavesFileIdentical(t *testing.T) {
	original := "  # config.secret_key = nil\n"
	path := writeFixture(t, "devise.rb", original)
	before, err := os.Stat(path)
	require.NoError(t, err)

	op := &SubstituteOp{
		Path:        path,
		Pattern:     regexp.MustCompile(`# TODO Add authentication logic here\.`),
		Replacement: "redirect_to '/'",
	}

	err = op.Validate(context.Background(), false)
	var noMatch *NoMatchError
	require.True(t, errors.As(err, &noMatch))
	assert.Equal(t, path, noMatch.Path)

	// Execute on its own must not write either.
	assert.Error(t, op.Execute(context.Background()))

	assert.Equal(t, original, readFixture(t, path))
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestSubstituteOp_Guard(t *testing.T) {
	content := "    email: Field::String,\n    password: Field::String.with_options(searchable: false),\n"
	path := writeFixture(t, "dashboard.rb", content)

	op := &SubstituteOp{
		Path:        path,
		Pattern:     regexp.MustCompile(`email: Field::String`),
		Replacement: "email: Field::String,\n    password: Field::String.with_options(searchable: false)",
		Guard:       "password: Field::String",
	}

	assert.ErrorIs(t, op.Validate(context.Background(), false), ErrAlreadyApplied)
	require.NoError(t, op.Execute(context.Background()))
	assert.Equal(t, content, readFixture(t, path))
}

func TestSubstituteOp_MissingFile(t *testing.T) {
	op := &SubstituteOp{
		Path:    filepath.Join(t.TempDir(), "missing.rb"),
		Pattern: regexp.MustCompile(`x`),
	}
	err := op.Validate(context.Background(), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInsertOp_Positions(t *testing.T) {
	tests := []struct {
		name     string
		anchor   string
		content  string
		position Position
		want     string
	}{
		{
			name:     "before",
			anchor:   "Rails.application.routes.draw do",
			content:  "require 'sidekiq/web'\n\n",
			position: Before,
			want:     "require 'sidekiq/web'\n\n" + routesRB,
		},
		{
			name:     "after",
			anchor:   "Rails.application.routes.draw do\n",
			content:  "  root to: 'home#index'\n",
			position: After,
			want: "Rails.application.routes.draw do\n  root to: 'home#index'\n" +
				"  # For details on the DSL available within this file, see https://guides.rubyonrails.org/routing.html\nend\n",
		},
		{
			name:     "before last",
			anchor:   "end",
			content:  "  get '/terms', to: 'home#terms'\n",
			position: BeforeLast,
			want: "Rails.application.routes.draw do\n" +
				"  # For details on the DSL available within this file, see https://guides.rubyonrails.org/routing.html\n" +
				"  get '/terms', to: 'home#terms'\nend\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "routes.rb", routesRB)
			op := &InsertOp{Path: path, Anchor: tt.anchor, Content: tt.content, Position: tt.position}

			require.NoError(t, run(t, op))
			assert.Equal(t, tt.want, readFixture(t, path))
		})
	}
}

func TestInsertOp_MissingAnchorLeavesFileIdentical(t *testing.T) {
	path := writeFixture(t, "routes.rb", routesRB)

	for _, pos := range []Position{Before, After, BeforeLast} {
		op := &InsertOp{Path: path, Anchor: "Rails.application.routes.draw do |r|", Content: "x\n", Position: pos}

		var noMatch *NoMatchError
		assert.True(t, errors.As(op.Validate(context.Background(), false), &noMatch))
		assert.True(t, errors.As(op.Execute(context.Background()), &noMatch))
	}

	assert.Equal(t, routesRB, readFixture(t, path))
}

func TestInsertOp_Idempotent(t *testing.T) {
	path := writeFixture(t, "routes.rb", routesRB)
	op := &InsertOp{Path: path, Anchor: "end", Content: "  get '/privacy', to: 'home#privacy'\n", Position: BeforeLast}

	require.NoError(t, run(t, op))
	once := readFixture(t, path)

	assert.ErrorIs(t, op.Validate(context.Background(), false), ErrAlreadyApplied)
	require.NoError(t, op.Execute(context.Background()))
	assert.Equal(t, once, readFixture(t, path))
}

func TestAppendLineOp(t *testing.T) {
	path := writeFixture(t, ".gitignore", "/log/*")

	op := &AppendLineOp{Path: path, Line: "/coverage"}
	require.NoError(t, run(t, op))
	assert.Equal(t, "/log/*\n/coverage\n", readFixture(t, path))

	assert.ErrorIs(t, op.Validate(context.Background(), false), ErrAlreadyApplied)
	require.NoError(t, op.Execute(context.Background()))
	assert.Equal(t, "/log/*\n/coverage\n", readFixture(t, path))
}

func TestPatch_PreservesMode(t *testing.T) {
	path := writeFixture(t, "setup", "#!/bin/sh\n")
	require.NoError(t, os.Chmod(path, 0755))

	require.NoError(t, run(t, &AppendLineOp{Path: path, Line: "bundle install"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestPreview(t *testing.T) {
	path := writeFixture(t, "routes.rb", routesRB)
	op := &InsertOp{Path: path, Anchor: "end", Content: "  root to: 'home#index'\n", Position: BeforeLast}

	target, before, after, err := op.Preview()
	require.NoError(t, err)
	assert.Equal(t, path, target)
	assert.Equal(t, routesRB, string(before))
	assert.Contains(t, string(after), "root to: 'home#index'")
	assert.Equal(t, routesRB, readFixture(t, path), "preview must not write")
}

func TestTransformOp(t *testing.T) {
	path := writeFixture(t, "Gemfile", "source \"https://rubygems.org\"\n")
	op := &TransformOp{
		Path:  path,
		Label: "gems",
		Fn: func(content string) (string, error) {
			if strings.Contains(content, "lograge") {
				return content, nil
			}
			return content + "gem \"lograge\"\n", nil
		},
	}

	require.NoError(t, run(t, op))
	assert.Equal(t, "source \"https://rubygems.org\"\ngem \"lograge\"\n", readFixture(t, path))
	assert.ErrorIs(t, op.Validate(context.Background(), false), ErrAlreadyApplied)
}
