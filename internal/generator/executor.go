package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun   bool
	Force    bool
	Lenient  bool      // Warn about unmatched patches instead of failing
	ShowDiff bool      // Print a diff for operations that implement Previewer
	Writer   io.Writer // Where to write output (defaults to os.Stdout)
	Log      *zerolog.Logger
}

// Execute runs operations with validation.
//
// All operations are validated before any is executed. An operation that
// reports ErrAlreadyApplied is skipped. A *NoMatchError fails the batch
// unless Lenient is set, in which case it is reported and skipped. In dry
// run mode nothing is validated or written; descriptions (and diffs) are
// printed instead.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	log := zerolog.Nop()
	if opts.Log != nil {
		log = *opts.Log
	}

	if opts.DryRun {
		for _, op := range ops {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
			if opts.ShowDiff {
				printPreview(opts.Writer, op)
			}
		}
		return nil
	}

	// Phase 1: Validate all operations
	pending := make([]Operation, 0, len(ops))
	for _, op := range ops {
		err := op.Validate(ctx, opts.Force)
		var noMatch *NoMatchError
		switch {
		case err == nil:
			pending = append(pending, op)
		case errors.Is(err, ErrAlreadyApplied):
			log.Debug().Str("op", op.Description()).Msg("Already applied")
			fmt.Fprintf(opts.Writer, "• %s (unchanged)\n", op.Description())
		case errors.As(err, &noMatch) && opts.Lenient:
			log.Debug().Str("path", noMatch.Path).Str("pattern", noMatch.Pattern).Msg("Patch matched nothing")
			fmt.Fprintf(opts.Writer, "⚠️  Skipped %s: %v\n", op.Description(), err)
		default:
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	// Phase 2: Execute
	for _, op := range pending {
		if opts.ShowDiff {
			printPreview(opts.Writer, op)
		}
		if err := op.Execute(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
	}

	return nil
}

func printPreview(w io.Writer, op Operation) {
	p, ok := op.(Previewer)
	if !ok {
		return
	}
	path, before, after, err := p.Preview()
	if err != nil {
		return
	}
	if d := Diff(displayPath(path), before, after); d != "" {
		fmt.Fprint(w, d)
	}
}
