package generator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptStrategy_Answers(t *testing.T) {
	tests := []struct {
		answer string
		want   ConflictResolution
	}{
		{"y\n", Overwrite},
		{"YES\n", Overwrite},
		{"n\n", Skip},
		{"\n", Skip},
		{"q\n", Cancel},
		{"", Skip},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.answer), func(t *testing.T) {
			var out bytes.Buffer
			s := &PromptStrategy{In: strings.NewReader(tt.answer), Out: &out}

			got, err := s.Resolve("Procfile", []byte("old\n"), []byte("new\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Overwrite Procfile?")
		})
	}
}

func TestPromptStrategy_DiffThenAnswer(t *testing.T) {
	var out bytes.Buffer
	s := &PromptStrategy{In: strings.NewReader("d\ny\n"), Out: &out}

	got, err := s.Resolve("Procfile", []byte("web: old\n"), []byte("web: new\n"))
	require.NoError(t, err)
	assert.Equal(t, Overwrite, got)
	assert.Contains(t, out.String(), "web: new")
	assert.Equal(t, 2, strings.Count(out.String(), "Overwrite Procfile?"))
}

func TestPromptStrategy_AllStopsAsking(t *testing.T) {
	var out bytes.Buffer
	s := &PromptStrategy{In: strings.NewReader("a\n"), Out: &out}
	resolver := NewResolverWith(s)

	for _, name := range []string{"a.rb", "b.rb", "c.rb"} {
		got, err := resolver.ResolveConflict(name, []byte("old"), []byte("new"))
		require.NoError(t, err)
		assert.Equal(t, Overwrite, got)
	}
	assert.Equal(t, 1, strings.Count(out.String(), "Overwrite"))
}

func TestPromptStrategy_UnknownAnswerShowsHelp(t *testing.T) {
	var out bytes.Buffer
	s := &PromptStrategy{In: strings.NewReader("maybe\nn\n"), Out: &out}

	got, err := s.Resolve("Procfile", []byte("old"), []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, Skip, got)
	assert.Contains(t, out.String(), "a: overwrite all")
}
