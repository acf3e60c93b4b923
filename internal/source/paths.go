package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// Root is one entry on the search path.
type Root struct {
	Name string // Absolute directory, or a label for embedded trees
	FS   fs.FS
}

// Paths is an ordered list of template roots. Lookups scan from the front,
// so the most recently prepended root wins on a name collision.
type Paths struct {
	roots []Root
}

// NewPaths creates search paths from roots in priority order.
func NewPaths(roots ...Root) *Paths {
	return &Paths{roots: append([]Root(nil), roots...)}
}

// Prepend puts dir at the highest priority.
func (p *Paths) Prepend(dir string) {
	p.PrependFS(dir, os.DirFS(dir))
}

// PrependFS puts an arbitrary file system at the highest priority.
func (p *Paths) PrependFS(name string, fsys fs.FS) {
	p.roots = append([]Root{{Name: name, FS: fsys}}, p.roots...)
}

// Append puts fsys at the lowest priority.
func (p *Paths) Append(name string, fsys fs.FS) {
	p.roots = append(p.roots, Root{Name: name, FS: fsys})
}

// Lookup finds the first root containing name (slash-separated, relative).
func (p *Paths) Lookup(name string) (Root, error) {
	name = path.Clean(name)
	for _, r := range p.roots {
		if _, err := fs.Stat(r.FS, name); err == nil {
			return r, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Root{}, fmt.Errorf("checking %s in %s: %w", name, r.Name, err)
		}
	}
	return Root{}, &NotFoundError{Name: name, Searched: p.names()}
}

// ReadFile reads name from the first root containing it.
func (p *Paths) ReadFile(name string) ([]byte, error) {
	r, err := p.Lookup(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(r.FS, path.Clean(name))
}

func (p *Paths) names() []string {
	names := make([]string, len(p.roots))
	for i, r := range p.roots {
		names[i] = r.Name
	}
	return names
}

// NotFoundError reports a template file missing from every root.
type NotFoundError struct {
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found in %v", e.Name, e.Searched)
}

func (e *NotFoundError) Unwrap() error {
	return fs.ErrNotExist
}
