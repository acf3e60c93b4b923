package generator

import (
	"bytes"
	"fmt"
)

// ConflictResolution represents what to do with an existing file
type ConflictResolution int

const (
	Skip ConflictResolution = iota
	Overwrite
	Cancel
)

func (c ConflictResolution) String() string {
	switch c {
	case Overwrite:
		return "overwrite"
	case Cancel:
		return "cancel"
	default:
		return "skip"
	}
}

// ConflictStrategy determines how to resolve conflicts
type ConflictStrategy interface {
	Resolve(path string, existing, newer []byte) (ConflictResolution, error)
}

// Resolver decides what happens when a copied file already exists with
// different content. Identical files never reach the strategy.
type Resolver struct {
	strategy ConflictStrategy
}

// NewResolver creates a conflict resolver from the force and skip flags.
// Neither flag set means conflicts cancel the operation.
func NewResolver(force, skip bool) (*Resolver, error) {
	if force && skip {
		return nil, fmt.Errorf("force cannot be combined with skip")
	}
	return &Resolver{strategy: selectStrategy(force, skip)}, nil
}

// NewResolverWith wraps a custom strategy.
func NewResolverWith(s ConflictStrategy) *Resolver {
	return &Resolver{strategy: s}
}

// ResolveConflict determines what to do with a file that already exists.
func (r *Resolver) ResolveConflict(path string, existing, newer []byte) (ConflictResolution, error) {
	if bytes.Equal(existing, newer) {
		return Skip, nil
	}
	return r.strategy.Resolve(path, existing, newer)
}

func selectStrategy(force, skip bool) ConflictStrategy {
	switch {
	case force:
		return ForceStrategy{}
	case skip:
		return SkipStrategy{}
	default:
		return CancelStrategy{}
	}
}

// ForceStrategy always overwrites.
type ForceStrategy struct{}

func (ForceStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Overwrite, nil
}

// SkipStrategy always keeps the existing file.
type SkipStrategy struct{}

func (SkipStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Skip, nil
}

// CancelStrategy stops on the first conflict.
type CancelStrategy struct{}

func (CancelStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Cancel, nil
}

// ConflictError reports a file that exists with different content and was
// not allowed to be replaced.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("file already exists with different content: %s", e.Path)
}
