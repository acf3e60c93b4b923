package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// TemplateSuffix marks files that are rendered while copying.
const TemplateSuffix = ".tmpl"

// CopyFileOp copies Name from Source to Dest.
type CopyFileOp struct {
	Source    fs.FS
	Name      string // Slash-separated path inside Source
	Dest      string
	Conflicts *Resolver // nil cancels on conflict

	forced bool
}

func (op *CopyFileOp) Validate(ctx context.Context, force bool) error {
	op.forced = force
	data, err := fs.ReadFile(op.Source, op.Name)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", op.Name, err)
	}

	existing, err := os.ReadFile(op.Dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("reading %s: %w", op.Dest, err)
	case bytes.Equal(existing, data):
		return ErrAlreadyApplied
	}
	return nil
}

func (op *CopyFileOp) Execute(ctx context.Context) error {
	data, err := fs.ReadFile(op.Source, op.Name)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", op.Name, err)
	}
	_, err = writeResolved(op.Dest, data, 0644, resolverFor(op.Conflicts, op.forced))
	return err
}

func (op *CopyFileOp) Preview() (string, []byte, []byte, error) {
	data, err := fs.ReadFile(op.Source, op.Name)
	if err != nil {
		return op.Dest, nil, nil, err
	}
	existing, _ := os.ReadFile(op.Dest)
	return op.Dest, existing, data, nil
}

func (op *CopyFileOp) Description() string {
	return fmt.Sprintf("Copy %s to %s", op.Name, displayPath(op.Dest))
}

// CopyDirOp recursively copies Dir from Source into Dest. Files ending in
// TemplateSuffix are rendered with Data and written without the suffix.
type CopyDirOp struct {
	Source    fs.FS
	Dir       string // Slash-separated directory inside Source
	Dest      string
	Data      any
	Renderer  *Renderer // nil uses a fresh renderer
	Conflicts *Resolver // nil cancels on conflict

	copied int
	forced bool
}

func (op *CopyDirOp) Validate(ctx context.Context, force bool) error {
	op.forced = force
	info, err := fs.Stat(op.Source, op.Dir)
	if err != nil {
		return fmt.Errorf("template directory %s: %w", op.Dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("template %s is not a directory", op.Dir)
	}
	return nil
}

func (op *CopyDirOp) Execute(ctx context.Context) error {
	renderer := op.Renderer
	if renderer == nil {
		renderer = NewRenderer()
	}

	files, err := op.files()
	if err != nil {
		return err
	}

	conflicts := resolverFor(op.Conflicts, op.forced)
	op.copied = 0
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(name, op.Dir), "/")
		data, err := fs.ReadFile(op.Source, name)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", name, err)
		}

		if strings.HasSuffix(rel, TemplateSuffix) {
			rel = strings.TrimSuffix(rel, TemplateSuffix)
			data, err = renderer.RenderString(name, string(data), op.Data)
			if err != nil {
				return err
			}
		}

		dest := filepath.Join(op.Dest, filepath.FromSlash(rel))
		wrote, err := writeResolved(dest, data, 0644, conflicts)
		if err != nil {
			return err
		}
		if wrote {
			op.copied++
		}
	}
	return nil
}

// Copied returns how many files the last Execute wrote.
func (op *CopyDirOp) Copied() int {
	return op.copied
}

func (op *CopyDirOp) files() ([]string, error) {
	var files []string
	err := fs.WalkDir(op.Source, op.Dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking template directory %s: %w", op.Dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func (op *CopyDirOp) Description() string {
	return fmt.Sprintf("Copy directory %s/ to %s", path.Clean(op.Dir), displayPath(op.Dest))
}

func resolverFor(r *Resolver, forced bool) *Resolver {
	if forced || r == nil {
		r, _ = NewResolver(forced, false)
	}
	return r
}

// writeResolved writes data to dest, consulting conflicts when dest already
// holds different content. It reports whether the file was written.
func writeResolved(dest string, data []byte, mode fs.FileMode, conflicts *Resolver) (bool, error) {
	existing, err := os.ReadFile(dest)
	if err == nil {
		resolution, err := conflicts.ResolveConflict(dest, existing, data)
		if err != nil {
			return false, err
		}
		switch resolution {
		case Skip:
			return false, nil
		case Cancel:
			return false, &ConflictError{Path: dest}
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("reading %s: %w", dest, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, fmt.Errorf("cannot create directory for %s: %w", dest, err)
	}
	if err := os.WriteFile(dest, data, mode); err != nil {
		return false, fmt.Errorf("writing %s: %w", dest, err)
	}
	return true, nil
}

// NewestFile returns the file in dir matching pattern with the latest
// modification time. Ties go to the lexically greatest name.
func NewestFile(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	var newest string
	var newestInfo os.FileInfo
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if newestInfo == nil ||
			info.ModTime().After(newestInfo.ModTime()) ||
			info.ModTime().Equal(newestInfo.ModTime()) && m > newest {
			newest, newestInfo = m, info
		}
	}

	if newestInfo == nil {
		return "", fmt.Errorf("no files matching %s in %s: %w", pattern, dir, fs.ErrNotExist)
	}
	return newest, nil
}
