package generator

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// Renderer handles template parsing and rendering with caching
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with built-in helper functions
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders a template from a string.
// The name is used for caching and error messages.
func (r *Renderer) RenderString(name, text string, data any) ([]byte, error) {
	return r.render("string:"+name, data, func() (string, error) {
		return text, nil
	})
}

func (r *Renderer) render(key string, data any, load func() (string, error)) ([]byte, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[key]
	r.mu.RUnlock()

	if !ok {
		text, err := load()
		if err != nil {
			return nil, err
		}
		name := key[strings.LastIndexByte(key, ':')+1:]
		tmpl, err = template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
		}

		r.mu.Lock()
		r.cache[key] = tmpl
		r.mu.Unlock()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}


func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"camelize":   Camelize,   // my_app → MyApp
		"underscore": Underscore, // MyApp → my_app
		"humanize":   Humanize,   // my_app → My app
		"quote":      Quote,
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"trim":       strings.TrimSpace,
		"join":       strings.Join,
		"replace":    strings.ReplaceAll,
		"default":    Default,
	}
}

// Camelize converts an application or file name to a Ruby constant name.
// Examples: my_app → MyApp, my-app → MyApp, blog → Blog
func Camelize(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Underscore converts CamelCase or dashed names to snake_case.
// Examples: MyApp → my_app, my-app → my_app, HTTPServer → http_server
func Underscore(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ':
			b.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Humanize turns a snake_case name into a sentence-cased label.
// Example: my_app → My app
func Humanize(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(Underscore(s), "_", " "))
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Default returns defaultVal when val is nil or an empty string.
func Default(defaultVal, val any) any {
	if val == nil {
		return defaultVal
	}
	if s, ok := val.(string); ok && s == "" {
		return defaultVal
	}
	return val
}
