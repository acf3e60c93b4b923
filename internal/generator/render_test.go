package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelize(t *testing.T) {
	tests := map[string]string{
		"my_app":      "MyApp",
		"my-app":      "MyApp",
		"blog":        "Blog",
		"store2_go":   "Store2Go",
		"AlreadyCool": "AlreadyCool",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Camelize(in), in)
	}
}

func TestUnderscore(t *testing.T) {
	tests := map[string]string{
		"MyApp":      "my_app",
		"my-app":     "my_app",
		"HTTPServer": "http_server",
		"admin_user": "admin_user",
	}
	for in, want := range tests {
		assert.Equal(t, want, Underscore(in), in)
	}
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Acme store", Humanize("acme_store"))
	assert.Equal(t, "Admin user", Humanize("AdminUser"))
	assert.Equal(t, "", Humanize(""))
}

func TestRenderer_RenderString(t *testing.T) {
	r := NewRenderer()

	out, err := r.RenderString("title", "{{ camelize .Name }}::Application", map[string]string{"Name": "my_app"})
	require.NoError(t, err)
	assert.Equal(t, "MyApp::Application", string(out))
}

func TestRenderer_ParseError(t *testing.T) {
	_, err := NewRenderer().RenderString("broken", "{{ .Name ", nil)
	assert.ErrorContains(t, err, "failed to parse template 'broken'")
}

func TestRenderer_MissingKey(t *testing.T) {
	_, err := NewRenderer().RenderString("strict", "{{ .Missing }}", map[string]string{})
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "fallback", Default("fallback", ""))
	assert.Equal(t, "fallback", Default("fallback", nil))
	assert.Equal(t, "set", Default("fallback", "set"))
}
