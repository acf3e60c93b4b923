// Package generator applies file operations to a project tree.
//
// Every operation is validated before it runs. Text patches (SubstituteOp,
// InsertOp, AppendLineOp) report a *NoMatchError when their pattern or
// anchor is absent and leave the file untouched. They report
// ErrAlreadyApplied when the change is already present, so applying the
// same patch twice is a no-op.
//
//	err := generator.Execute(ctx, []generator.Operation{
//	    &generator.InsertOp{
//	        Path:     "config/routes.rb",
//	        Anchor:   "end",
//	        Content:  "  get '/terms', to: 'home#terms'\n",
//	        Position: generator.BeforeLast,
//	    },
//	}, generator.ExecuteOptions{})
//
// Directory copies render files ending in ".tmpl" through Renderer and
// resolve conflicts with existing files through a Resolver.
package generator
