package generator

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// PromptStrategy asks on Out whether to replace each conflicting file and
// reads the answer from In:
//
//	Overwrite app/views/home/index.html.erb? [y/N/d/a/q]: _
//
// y overwrites, n (or Enter) keeps the file, d prints a diff and asks
// again, a overwrites this and every later conflict, q cancels.
type PromptStrategy struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
	all    bool
}

func (s *PromptStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	if s.all {
		return Overwrite, nil
	}
	if s.reader == nil {
		s.reader = bufio.NewReader(s.In)
	}

	for {
		fmt.Fprint(s.Out, promptStyle.Render("Overwrite "+displayPath(path)+"?")+" "+
			hintStyle.Render("[y/N/d/a/q]")+": ")

		answer, err := s.reader.ReadString('\n')
		if err != nil && answer == "" {
			if err == io.EOF {
				fmt.Fprintln(s.Out)
				return Skip, nil
			}
			return Cancel, fmt.Errorf("reading answer: %w", err)
		}

		switch strings.TrimSpace(strings.ToLower(answer)) {
		case "y", "yes":
			return Overwrite, nil
		case "", "n", "no":
			return Skip, nil
		case "a", "all":
			s.all = true
			return Overwrite, nil
		case "q", "quit":
			return Cancel, nil
		case "d", "diff":
			fmt.Fprintln(s.Out, Diff(path, existing, newer))
		default:
			fmt.Fprintln(s.Out, hintStyle.Render("y: overwrite, n: keep, d: show diff, a: overwrite all, q: cancel"))
		}
	}
}
