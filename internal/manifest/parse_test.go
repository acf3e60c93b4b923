package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`
dependencies:
  - name: pundit
    version: "~> 2.3"
  - name: sidekiq
    version: ["~> 5.1", ">= 5.1.3"]
  - name: rubocop-rails
    group: development
    require: false
`)

	deps, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, deps, 3)

	assert.Equal(t, Gem("pundit", "~> 2.3"), deps[0])
	assert.Equal(t, []string{"~> 5.1", ">= 5.1.3"}, deps[1].Constraints)
	assert.Equal(t, Development, deps[2].Group)
	assert.True(t, deps[2].NoRequire)
}

func TestParse_Malformed(t *testing.T) {
	tests := map[string]string{
		"bad yaml":       "dependencies: [",
		"bad version":    "dependencies:\n  - name: pundit\n    version: {major: 2}\n",
		"bad constraint": "dependencies:\n  - name: pundit\n    version: latest\n",
		"bad group":      "dependencies:\n  - name: pundit\n    group: staging\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	deps, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, deps)
}
