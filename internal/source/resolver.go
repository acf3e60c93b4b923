// Package source resolves where a recipe's template files come from.
//
// A reference is either a local path or a remote git repository. Remote
// references are cloned into a temporary directory that the returned Source
// owns; callers must Close it on every exit path.
//
//	src, err := source.NewResolver(runner).Resolve(ctx, "https://github.com/acme/kickstart/tree/v2")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	paths.Prepend(src.Dir)
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/simonhull/firebird-suite/hatch/internal/exec"
)

var remotePattern = regexp.MustCompile(`^(?:(?:https?|ssh|git)://|git@[^:/]+:)`)

// Source is a resolved template location.
type Source struct {
	Dir    string // Absolute base directory holding the template files
	Remote bool
	URL    string // Clone URL for remote sources
	Ref    string // Checked-out ref, if one was requested

	temp      string
	closeOnce sync.Once
	closeErr  error
}

// Close removes the temporary clone of a remote source. It is safe to call
// more than once and is a no-op for local sources.
func (s *Source) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		if s.temp != "" {
			s.closeErr = os.RemoveAll(s.temp)
		}
	})
	return s.closeErr
}

// Resolver turns template references into Sources.
type Resolver struct {
	runner     exec.Runner
	tempRoot   string
	executable func() (string, error)
	log        zerolog.Logger
}

// NewResolver creates a resolver that clones through runner.
func NewResolver(runner exec.Runner) *Resolver {
	return &Resolver{
		runner:     runner,
		executable: os.Executable,
		log:        zerolog.Nop(),
	}
}

// WithLogger sets the logger used for resolution events.
func (r *Resolver) WithLogger(l zerolog.Logger) *Resolver {
	r.log = l
	return r
}

// WithTempRoot sets the parent directory for remote clones (default os.TempDir).
func (r *Resolver) WithTempRoot(dir string) *Resolver {
	r.tempRoot = dir
	return r
}

// Resolve locates the template files named by reference.
func (r *Resolver) Resolve(ctx context.Context, reference string) (*Source, error) {
	if IsRemote(reference) {
		return r.resolveRemote(ctx, reference)
	}
	return r.resolveLocal(reference)
}

func (r *Resolver) resolveRemote(ctx context.Context, reference string) (*Source, error) {
	url, ref, err := ParseRemote(reference)
	if err != nil {
		return nil, &ResolveError{Reference: reference, Op: "parse", Err: err}
	}

	tmp, err := os.MkdirTemp(r.tempRoot, "hatch-")
	if err != nil {
		return nil, &ResolveError{Reference: reference, Op: "tempdir", Err: err}
	}

	src := &Source{Dir: tmp, Remote: true, URL: url, Ref: ref, temp: tmp}

	r.log.Debug().Str("url", url).Str("dir", tmp).Msg("Cloning template repository")
	clone := exec.NewCommand("git", "clone", "--quiet", "--", url, tmp).
		WithSpinner("Fetching template " + url)
	if _, err := r.runner.Run(ctx, clone); err != nil {
		_ = src.Close()
		return nil, &ResolveError{Reference: reference, Op: "clone", Err: err}
	}

	if ref != "" {
		r.log.Debug().Str("ref", ref).Msg("Checking out template ref")
		checkout := exec.NewCommand("git", "checkout", "--quiet", ref).In(tmp)
		if _, err := r.runner.Run(ctx, checkout); err != nil {
			_ = src.Close()
			return nil, &ResolveError{Reference: reference, Op: "checkout", Err: err}
		}
	}

	return src, nil
}

func (r *Resolver) resolveLocal(reference string) (*Source, error) {
	if reference == "" {
		exe, err := r.executable()
		if err != nil {
			return nil, &ResolveError{Reference: reference, Op: "locate executable", Err: err}
		}
		reference = exe
	}

	abs, err := filepath.Abs(reference)
	if err != nil {
		return nil, &ResolveError{Reference: reference, Op: "abs", Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &ResolveError{Reference: reference, Op: "stat", Err: err}
	}
	if !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	r.log.Debug().Str("dir", abs).Msg("Using local template directory")
	return &Source{Dir: abs}, nil
}

// IsRemote reports whether reference names a remote repository.
func IsRemote(reference string) bool {
	return remotePattern.MatchString(reference)
}

// ParseRemote splits a remote reference into its clone URL and ref.
// Refs come from a "#ref" fragment or a trailing "/tree/<ref>" path.
func ParseRemote(reference string) (url, ref string, err error) {
	url = reference
	found := false

	if i := strings.LastIndex(url, "#"); i >= 0 {
		url, ref, found = url[:i], url[i+1:], true
	} else if i := strings.Index(url, "/tree/"); i >= 0 {
		url, ref, found = url[:i], url[i+len("/tree/"):], true
	}

	ref = strings.TrimSuffix(ref, "/")
	if found {
		if err := ValidateRef(ref); err != nil {
			return "", "", err
		}
	}
	return url, ref, nil
}

// ValidateRef rejects refs git would read as options or refuse outright.
func ValidateRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("empty ref")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("invalid ref %q: must not start with '-'", ref)
	}
	if strings.Contains(ref, "..") {
		return fmt.Errorf("invalid ref %q: must not contain '..'", ref)
	}
	for _, r := range ref {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune("~^:?*[\\", r) {
			return fmt.Errorf("invalid ref %q: contains %q", ref, r)
		}
	}
	return nil
}

// ResolveError reports a failure to resolve a template source.
type ResolveError struct {
	Reference string
	Op        string
	Err       error
}

func (e *ResolveError) Error() string {
	ref := e.Reference
	if ref == "" {
		ref = "(default)"
	}
	return fmt.Sprintf("resolving template source %s: %s: %v", ref, e.Op, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
