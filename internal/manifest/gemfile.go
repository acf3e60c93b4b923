package manifest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/simonhull/firebird-suite/hatch/internal/generator"
)

var (
	gemLine     = regexp.MustCompile(`^\s*gem\s+["']([^"']+)["']`)
	groupHeader = regexp.MustCompile(`^group\s+(.+?)\s+do\s*$`)
	groupSymbol = regexp.MustCompile(`:([a-z_]+)`)
)

// Apply adds deps to a Gemfile's content. It validates every declaration
// before changing anything and returns content unchanged on error.
func Apply(content string, deps []Dependency) (string, error) {
	if err := ValidateAll(deps); err != nil {
		return content, err
	}

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if content == "" {
		lines = nil
	}

	for _, d := range deps {
		if declared(lines, d.Name) {
			continue
		}

		g := d.group()
		if g == Runtime {
			lines = append(lines, d.Line())
			continue
		}

		if end := groupEnd(lines, g); end >= 0 {
			lines = append(lines[:end], append([]string{"  " + d.Line()}, lines[end:]...)...)
			continue
		}

		if n := len(lines); n > 0 && lines[n-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, "group "+g.Symbols()+" do", "  "+d.Line(), "end")
	}

	return strings.Join(lines, "\n") + "\n", nil
}

// Declared returns the gem names a Gemfile already mentions.
func Declared(content string) []string {
	var names []string
	for _, l := range strings.Split(content, "\n") {
		if m := gemLine.FindStringSubmatch(l); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

func declared(lines []string, name string) bool {
	for _, l := range lines {
		if m := gemLine.FindStringSubmatch(l); m != nil && m[1] == name {
			return true
		}
	}
	return false
}

// groupEnd returns the index of the closing "end" of the block for g, or -1.
func groupEnd(lines []string, g Group) int {
	want := groupKey(strings.Split(string(g), "+"))
	for i, l := range lines {
		m := groupHeader.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		var names []string
		for _, s := range groupSymbol.FindAllStringSubmatch(m[1], -1) {
			names = append(names, s[1])
		}
		if groupKey(names) != want {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimRight(lines[j], " \t") == "end" {
				return j
			}
		}
	}
	return -1
}

func groupKey(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Op returns a file operation that applies deps to the Gemfile at path.
func Op(path string, deps []Dependency) generator.Operation {
	return &generator.TransformOp{
		Path:  path,
		Label: "gem declarations",
		Fn: func(content string) (string, error) {
			return Apply(content, deps)
		},
	}
}
