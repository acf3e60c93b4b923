package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateFS() fstest.MapFS {
	return fstest.MapFS{
		"Procfile":                           {Data: []byte("web: bundle exec rails server\nworker: bundle exec sidekiq\n")},
		"app/controllers/home_controller.rb": {Data: []byte("class HomeController < ApplicationController\nend\n")},
		"app/views/home/index.html.erb.tmpl": {Data: []byte("<h1>{{ .AppName | humanize }}</h1>\n")},
		"lib/tasks/.keep":                    {Data: []byte{}},
	}
}

func TestCopyDirOp_CopiesAndRenders(t *testing.T) {
	dest := t.TempDir()
	op := &CopyDirOp{
		Source: templateFS(),
		Dir:    "app",
		Dest:   filepath.Join(dest, "app"),
		Data:   map[string]string{"AppName": "acme_store"},
	}

	require.NoError(t, run(t, op))
	assert.Equal(t, 2, op.Copied())

	assert.FileExists(t, filepath.Join(dest, "app", "controllers", "home_controller.rb"))
	assert.NoFileExists(t, filepath.Join(dest, "app", "views", "home", "index.html.erb.tmpl"))

	rendered, err := os.ReadFile(filepath.Join(dest, "app", "views", "home", "index.html.erb"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Acme store</h1>\n", string(rendered))
}

func TestCopyDirOp_ConflictStrategies(t *testing.T) {
	tests := []struct {
		name      string
		conflicts *Resolver
		force     bool
		wantErr   bool
		want      string
	}{
		{name: "default cancels", wantErr: true, want: "custom\n"},
		{name: "skip keeps existing", conflicts: NewResolverWith(SkipStrategy{}), want: "custom\n"},
		{name: "overwrite replaces", conflicts: NewResolverWith(ForceStrategy{}), want: "class HomeController < ApplicationController\nend\n"},
		{name: "force flag replaces", force: true, want: "class HomeController < ApplicationController\nend\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := t.TempDir()
			existing := filepath.Join(dest, "controllers", "home_controller.rb")
			require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0755))
			require.NoError(t, os.WriteFile(existing, []byte("custom\n"), 0644))

			op := &CopyDirOp{
				Source:    templateFS(),
				Dir:       "app",
				Dest:      dest,
				Data:      map[string]string{"AppName": "x"},
				Conflicts: tt.conflicts,
			}
			ctx := context.Background()
			require.NoError(t, op.Validate(ctx, tt.force))
			err := op.Execute(ctx)

			if tt.wantErr {
				var conflict *ConflictError
				assert.ErrorAs(t, err, &conflict)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, readFixture(t, existing))
		})
	}
}

func TestCopyDirOp_MissingDirectory(t *testing.T) {
	op := &CopyDirOp{Source: templateFS(), Dir: "config", Dest: t.TempDir()}
	assert.Error(t, op.Validate(context.Background(), false))
}

func TestCopyFileOp(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "Procfile")
	op := &CopyFileOp{Source: templateFS(), Name: "Procfile", Dest: dest}

	require.NoError(t, run(t, op))
	assert.Contains(t, readFixture(t, dest), "worker: bundle exec sidekiq")

	assert.ErrorIs(t, op.Validate(context.Background(), false), ErrAlreadyApplied)
}

func TestCopyFileOp_SkipKeepsCustomFile(t *testing.T) {
	dest := writeFixture(t, "Procfile", "web: puma\n")
	op := &CopyFileOp{Source: templateFS(), Name: "Procfile", Dest: dest, Conflicts: NewResolverWith(SkipStrategy{})}

	require.NoError(t, run(t, op))
	assert.Equal(t, "web: puma\n", readFixture(t, dest))
}

func TestNewestFile(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	files := map[string]time.Duration{
		"20240101000000_create_posts.rb":       0,
		"20240102000000_devise_create_users.rb": 2 * time.Minute,
		"20240103000000_add_index.rb":          time.Minute,
	}
	for name, offset := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("class X; end\n"), 0644))
		mtime := base.Add(offset)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	newest, err := NewestFile(dir, "*")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240102000000_devise_create_users.rb"), newest)
}

func TestNewestFile_TieBreaksByName(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Now().Add(-time.Hour).Truncate(time.Second)
	for _, name := range []string{"a.rb", "c.rb", "b.rb"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, nil, 0644))
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	newest, err := NewestFile(dir, "*.rb")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "c.rb"), newest)
}

func TestNewestFile_NoMatch(t *testing.T) {
	_, err := NewestFile(t.TempDir(), "*")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
