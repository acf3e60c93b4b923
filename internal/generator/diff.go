package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// maxDiffLines bounds the quadratic line matcher.
const maxDiffLines = 4000

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

type editKind int

const (
	editKeep editKind = iota
	editAdd
	editRemove
)

type edit struct {
	kind    editKind
	text    string
	oldLine int // 1-based, 0 for additions
	newLine int // 1-based, 0 for removals
}

// Diff renders a colored unified diff between before and after, with three
// lines of context. Identical inputs produce an empty string.
func Diff(path string, before, after []byte) string {
	if bytes.Equal(before, after) {
		return ""
	}
	if bytes.IndexByte(before, 0) >= 0 || bytes.IndexByte(after, 0) >= 0 {
		return fmt.Sprintf("Binary file %s differs\n", path)
	}

	a, b := lines(before), lines(after)
	if len(a) > maxDiffLines || len(b) > maxDiffLines {
		return fmt.Sprintf("File %s too large for diff (%d and %d lines)\n", path, len(a), len(b))
	}

	width := terminalWidth()
	var out strings.Builder
	out.WriteString(headerStyle.Render("--- "+path) + "\n")
	out.WriteString(headerStyle.Render("+++ "+path) + "\n")

	for _, h := range hunks(editScript(a, b), 3) {
		out.WriteString(hunkStyle.Render(hunkHeader(h)) + "\n")
		for _, e := range h {
			text := truncate(strings.ReplaceAll(e.text, "\t", "    "), width-2)
			switch e.kind {
			case editAdd:
				out.WriteString(addedStyle.Render("+"+text) + "\n")
			case editRemove:
				out.WriteString(removedStyle.Render("-"+text) + "\n")
			default:
				out.WriteString(" " + text + "\n")
			}
		}
	}
	return out.String()
}

func lines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

// editScript walks a longest-common-subsequence table to produce the edits
// turning a into b.
func editScript(a, b []string) []edit {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var script []edit
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && a[i] == b[j]:
			script = append(script, edit{kind: editKeep, text: a[i], oldLine: i + 1, newLine: j + 1})
			i++
			j++
		case j < m && (i == n || lcs[i][j+1] >= lcs[i+1][j]):
			script = append(script, edit{kind: editAdd, text: b[j], newLine: j + 1})
			j++
		default:
			script = append(script, edit{kind: editRemove, text: a[i], oldLine: i + 1})
			i++
		}
	}
	return script
}

// hunks groups changes with up to context unchanged lines on each side.
// Changes separated by more than 2*context unchanged lines split.
func hunks(script []edit, context int) [][]edit {
	var out [][]edit
	start, end := -1, -1
	for i, e := range script {
		if e.kind == editKeep {
			continue
		}
		lo := max(0, i-context)
		if start >= 0 && lo > end+1 {
			out = append(out, script[start:end+1])
			start = -1
		}
		if start < 0 {
			start = lo
		}
		end = min(len(script)-1, i+context)
	}
	if start >= 0 {
		out = append(out, script[start:end+1])
	}
	return out
}

func hunkHeader(h []edit) string {
	oldStart, newStart, oldCount, newCount := 0, 0, 0, 0
	for _, e := range h {
		if e.kind != editAdd {
			if oldStart == 0 {
				oldStart = e.oldLine
			}
			oldCount++
		}
		if e.kind != editRemove {
			if newStart == 0 {
				newStart = e.newLine
			}
			newCount++
		}
	}
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
