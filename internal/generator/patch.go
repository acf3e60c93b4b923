package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// textPatch is a pure transformation of one file's content.
type textPatch interface {
	target() string
	transform(content string) (string, error)
}

func readTarget(path string) (string, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("cannot patch %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("cannot patch %s: %w", path, err)
	}
	return string(data), info.Mode().Perm(), nil
}

func validatePatch(p textPatch) error {
	content, _, err := readTarget(p.target())
	if err != nil {
		return err
	}
	_, err = p.transform(content)
	return err
}

// executePatch re-reads the file so earlier operations in the same batch are seen.
func executePatch(p textPatch) error {
	content, mode, err := readTarget(p.target())
	if err != nil {
		return err
	}
	out, err := p.transform(content)
	if errors.Is(err, ErrAlreadyApplied) {
		return nil
	}
	if err != nil {
		return err
	}
	if out == content {
		return nil
	}
	return os.WriteFile(p.target(), []byte(out), mode)
}

func previewPatch(p textPatch) (string, []byte, []byte, error) {
	content, _, err := readTarget(p.target())
	if err != nil {
		return p.target(), nil, nil, err
	}
	out, err := p.transform(content)
	if errors.Is(err, ErrAlreadyApplied) {
		out, err = content, nil
	}
	return p.target(), []byte(content), []byte(out), err
}

// SubstituteOp replaces every match of Pattern in Path.
type SubstituteOp struct {
	Path        string
	Pattern     *regexp.Regexp
	Replacement string // Expanded as in regexp.ReplaceAllString
	Guard       string // Skip when the file already contains this text
}

func (op *SubstituteOp) target() string { return op.Path }

func (op *SubstituteOp) transform(content string) (string, error) {
	if op.Guard != "" && strings.Contains(content, op.Guard) {
		return content, ErrAlreadyApplied
	}
	if !op.Pattern.MatchString(content) {
		return content, &NoMatchError{Path: op.Path, Pattern: op.Pattern.String()}
	}
	out := op.Pattern.ReplaceAllString(content, op.Replacement)
	if out == content {
		return content, ErrAlreadyApplied
	}
	return out, nil
}

func (op *SubstituteOp) Validate(ctx context.Context, force bool) error {
	return validatePatch(op)
}

func (op *SubstituteOp) Execute(ctx context.Context) error {
	return executePatch(op)
}

func (op *SubstituteOp) Preview() (string, []byte, []byte, error) {
	return previewPatch(op)
}

func (op *SubstituteOp) Description() string {
	return fmt.Sprintf("Patch %s (%s)", displayPath(op.Path), op.Pattern)
}

// Position selects where InsertOp places its content.
type Position int

const (
	After      Position = iota // Right after the first anchor
	Before                     // Right before the first anchor
	BeforeLast                 // Right before the last anchor
)

func (p Position) String() string {
	switch p {
	case Before:
		return "before"
	case BeforeLast:
		return "before last"
	default:
		return "after"
	}
}

// InsertOp splices Content next to the Anchor text in Path. Content that is
// already present in the file is not inserted again.
type InsertOp struct {
	Path     string
	Anchor   string
	Content  string
	Position Position
}

func (op *InsertOp) target() string { return op.Path }

func (op *InsertOp) transform(content string) (string, error) {
	if strings.Contains(content, op.Content) {
		return content, ErrAlreadyApplied
	}

	var i int
	if op.Position == BeforeLast {
		i = strings.LastIndex(content, op.Anchor)
	} else {
		i = strings.Index(content, op.Anchor)
	}
	if i < 0 {
		return content, &NoMatchError{Path: op.Path, Pattern: op.Anchor}
	}
	if op.Position == After {
		i += len(op.Anchor)
	}
	return content[:i] + op.Content + content[i:], nil
}

func (op *InsertOp) Validate(ctx context.Context, force bool) error {
	return validatePatch(op)
}

func (op *InsertOp) Execute(ctx context.Context) error {
	return executePatch(op)
}

func (op *InsertOp) Preview() (string, []byte, []byte, error) {
	return previewPatch(op)
}

func (op *InsertOp) Description() string {
	return fmt.Sprintf("Insert into %s %s %q", displayPath(op.Path), op.Position, firstLine(op.Anchor))
}

// AppendLineOp appends Line to Path unless a line with the same text is
// already there.
type AppendLineOp struct {
	Path string
	Line string
}

func (op *AppendLineOp) target() string { return op.Path }

func (op *AppendLineOp) transform(content string) (string, error) {
	want := strings.TrimRight(op.Line, "\n")
	for _, l := range strings.Split(content, "\n") {
		if l == want {
			return content, ErrAlreadyApplied
		}
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + want + "\n", nil
}

func (op *AppendLineOp) Validate(ctx context.Context, force bool) error {
	return validatePatch(op)
}

func (op *AppendLineOp) Execute(ctx context.Context) error {
	return executePatch(op)
}

func (op *AppendLineOp) Preview() (string, []byte, []byte, error) {
	return previewPatch(op)
}

func (op *AppendLineOp) Description() string {
	return fmt.Sprintf("Append to %s: %s", displayPath(op.Path), firstLine(op.Line))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

// TransformOp rewrites Path through Fn. Fn returns the content unchanged,
// or ErrAlreadyApplied, when there is nothing to do.
type TransformOp struct {
	Path  string
	Label string
	Fn    func(content string) (string, error)
}

func (op *TransformOp) target() string { return op.Path }

func (op *TransformOp) transform(content string) (string, error) {
	out, err := op.Fn(content)
	if err != nil {
		return content, err
	}
	if out == content {
		return content, ErrAlreadyApplied
	}
	return out, nil
}

func (op *TransformOp) Validate(ctx context.Context, force bool) error {
	return validatePatch(op)
}

func (op *TransformOp) Execute(ctx context.Context) error {
	return executePatch(op)
}

func (op *TransformOp) Preview() (string, []byte, []byte, error) {
	return previewPatch(op)
}

func (op *TransformOp) Description() string {
	if op.Label != "" {
		return fmt.Sprintf("Update %s (%s)", displayPath(op.Path), op.Label)
	}
	return fmt.Sprintf("Update %s", displayPath(op.Path))
}
