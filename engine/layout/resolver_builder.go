package layout

import (
	"log"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// ResolverBuilderOption is a functional option used to configure a Resolver during construction.
type ResolverBuilderOption func(*resolver)

// WithLogger sets the logger warnings and the run summary are written to.
//
// Parameters:
//   - logger: the logger to use; nil keeps the standard logger
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithLogger(logger *log.Logger) ResolverBuilderOption {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWorkers sets the number of worker goroutines used to extract shaders in parallel.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithWorkers(n int) ResolverBuilderOption {
	return func(r *resolver) {
		if n < 1 {
			n = 1
		}
		r.workers = n
	}
}

// WithPool sets a running worker pool to extract on, shared with other components.
// The resolver never stops a pool it was given. WithWorkers has no effect when a pool is set.
//
// Parameters:
//   - pool: the worker pool; nil lets the resolver start its own
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithPool(pool worker.DynamicWorkerPool) ResolverBuilderOption {
	return func(r *resolver) {
		r.pool = pool
	}
}

// WithArrayPolicy sets how array bindings with unresolvable sizes are treated.
//
// Parameters:
//   - policy: ArrayPolicyWarn (default) or ArrayPolicyStrict
//
// Returns:
//   - ResolverBuilderOption: option function to apply
func WithArrayPolicy(policy ArrayPolicy) ResolverBuilderOption {
	return func(r *resolver) {
		r.policy = policy
	}
}
