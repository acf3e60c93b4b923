package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolver(t *testing.T) {
	tests := []struct {
		name  string
		force bool
		skip  bool
		want  ConflictResolution
	}{
		{"no flags", false, false, Cancel},
		{"force only", true, false, Overwrite},
		{"skip only", false, true, Skip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, err := NewResolver(tt.force, tt.skip)
			require.NoError(t, err)

			got, err := resolver.ResolveConflict("Procfile", []byte("old"), []byte("new"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewResolver_InvalidCombination(t *testing.T) {
	_, err := NewResolver(true, true)
	assert.Error(t, err)
}

func TestResolveConflict_IdenticalContentSkips(t *testing.T) {
	resolver := NewResolverWith(CancelStrategy{})

	got, err := resolver.ResolveConflict("Procfile", []byte("same"), []byte("same"))
	require.NoError(t, err)
	assert.Equal(t, Skip, got)
}
