package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks if the operation would succeed without executing it.
// force=true skips conflict checks (e.g., file already exists).
// Returning ErrAlreadyApplied means there is nothing left to do.
//
// Execute performs the actual operation. This should only be called after Validate succeeds.
//
// Description returns a human-readable description for output (e.g., "Copy Procfile to Procfile").
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// Previewer is implemented by operations that can show their effect on a
// single file before running.
type Previewer interface {
	Preview() (path string, before, after []byte, err error)
}

// ErrAlreadyApplied marks an operation whose change is already present.
var ErrAlreadyApplied = errors.New("already applied")

// NoMatchError reports a patch whose pattern or anchor matched nothing.
type NoMatchError struct {
	Path    string
	Pattern string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no match for %q in %s", e.Pattern, e.Path)
}

// displayPath shortens p relative to the working directory when it lives below it.
func displayPath(p string) string {
	if !filepath.IsAbs(p) {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, p)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return p
	}
	return rel
}
