package project

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/hatch/internal/testing/testutil"
)

const gemfileLock = `GEM
  remote: https://rubygems.org/
  specs:
    rails (7.1.3)
      actioncable (= 7.1.3)
    railties (7.1.3)

DEPENDENCIES
  rails (~> 7.1.3)
`

func TestDetectRails(t *testing.T) {
	p := testutil.NewTestProject(t, "acme_store")
	p.ScaffoldRails()
	p.WriteFile("Gemfile.lock", gemfileLock)

	app, err := DetectRails(p.Dir())
	require.NoError(t, err)
	assert.Equal(t, p.Dir(), app.Root)
	assert.Equal(t, "AcmeStore", app.Module)
	assert.Equal(t, "7.1.3", app.Version)
	assert.True(t, IsRailsApp(p.Dir()))
}

func TestDetectRails_NoLockfile(t *testing.T) {
	p := testutil.NewTestProject(t, "acme_store")
	p.ScaffoldRails()

	app, err := DetectRails(p.Dir())
	require.NoError(t, err)
	assert.Empty(t, app.Version)
}

func TestDetectRails_NotRails(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		missing string
	}{
		{"empty", nil, "Gemfile"},
		{"gemfile only", map[string]string{"Gemfile": "source 'https://rubygems.org'\n"}, "config/application.rb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.NewTestProject(t, "plain")
			p.WriteFile(".keep", "")
			for rel, content := range tt.files {
				p.WriteFile(rel, content)
			}

			_, err := DetectRails(p.Dir())
			var notRails *NotRailsError
			require.True(t, errors.As(err, &notRails))
			assert.Equal(t, tt.missing, notRails.Missing)
			assert.False(t, IsRailsApp(p.Dir()))
		})
	}
}
