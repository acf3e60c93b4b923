// Package recipe runs an ordered list of named steps against a project.
//
// A Recipe is static: its steps are built once and run in declaration
// order by Run. Each step may carry a precondition that is checked right
// before it runs, so ordering requirements ("migrations exist before the
// database is migrated") fail loudly instead of depending on position alone.
// Applied steps are recorded in a state file inside the project, and a rerun
// skips them.
package recipe

import (
	"context"
	"fmt"
)

// Step is one named unit of work.
type Step struct {
	Name        string
	Description string
	// Check asserts the step's precondition. A nil Check always passes.
	Check func(ctx context.Context, env *Env) error
	Run   func(ctx context.Context, env *Env) error
}

// Recipe is an ordered list of steps.
type Recipe struct {
	Name  string
	Steps []Step
}

// Validate checks that every step is named uniquely and runnable.
func (r Recipe) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("recipe has no name")
	}
	seen := make(map[string]bool, len(r.Steps))
	for i, s := range r.Steps {
		if s.Name == "" {
			return fmt.Errorf("recipe %s: step %d has no name", r.Name, i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("recipe %s: duplicate step %q", r.Name, s.Name)
		}
		if s.Run == nil {
			return fmt.Errorf("recipe %s: step %q has no Run", r.Name, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Names returns the step names in order.
func (r Recipe) Names() []string {
	names := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		names[i] = s.Name
	}
	return names
}

// StepError reports the step a run stopped at.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// PreconditionError reports a step whose Check failed. The step did not run.
type PreconditionError struct {
	Step string
	Err  error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition not met: %v", e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// RequireApplied is a Check helper asserting that earlier steps have run.
func RequireApplied(names ...string) func(context.Context, *Env) error {
	return func(_ context.Context, env *Env) error {
		for _, n := range names {
			if !env.State.Done(n) {
				return fmt.Errorf("step %q has not been applied", n)
			}
		}
		return nil
	}
}
