package layout

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-forge/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
)

// Resolution is the result of a successful run: the layout pool with its reference table,
// and every warning raised on the way.
type Resolution struct {
	Pool     *Pool
	Warnings []Warning
}

// resolver is the implementation of the Resolver interface.
type resolver struct {
	logger  *log.Logger
	workers int
	policy  ArrayPolicy

	pool worker.DynamicWorkerPool
}

// Resolver runs the full layout resolution: per-shader extraction and validation, per-pipeline
// group validation and merge, then global deduplication.
type Resolver interface {
	// Resolve turns shaders and the pipelines combining them into a deduplicated layout pool.
	// Errors are batched: every shader and every pipeline is checked before the run fails, and
	// a failed run produces no pool. Errors are ordered with per-shader errors first, in the order
	// shaders are first referenced, followed by per-pipeline errors in declaration order.
	//
	// Parameters:
	//   - shaders: every available shader, keyed by shader key
	//   - pipelines: the pipelines to resolve, in declaration order
	//
	// Returns:
	//   - *Resolution: the pool, reference table and warnings
	//   - error: Errors describing every problem found, or nil
	Resolve(shaders map[string]shader.Shader, pipelines []pipeline.Pipeline) (*Resolution, error)
}

var _ Resolver = &resolver{}

// NewResolver creates a new Resolver with all specified options applied.
// By default it logs through the standard logger, extracts on runtime.NumCPU()-1 workers and
// uses ArrayPolicyWarn. The worker pool is started once here and reused by every Resolve call.
//
// Parameters:
//   - options: optional builder options
//
// Returns:
//   - Resolver: a new Resolver instance with the provided configuration
func NewResolver(options ...ResolverBuilderOption) Resolver {
	r := &resolver{
		logger:  log.Default(),
		workers: max(runtime.NumCPU()-1, 1),
		policy:  ArrayPolicyWarn,
	}
	for _, option := range options {
		option(r)
	}
	if r.pool == nil {
		r.pool = worker.NewDynamicWorkerPool(r.workers, 256, 1*time.Second)
	}
	return r
}

// extraction is the per-shader result slot filled by a worker.
type extraction struct {
	bindings []Binding
	warnings []Warning
	err      error
}

func (r *resolver) Resolve(shaders map[string]shader.Shader, pipelines []pipeline.Pipeline) (*Resolution, error) {
	pipelineErrs := make([]Errors, len(pipelines))
	usable := make([]bool, len(pipelines))
	names := make(map[string]bool, len(pipelines))

	var order []string
	referenced := make(map[string]int)
	for i, p := range pipelines {
		name := p.Name()
		if names[name] {
			pipelineErrs[i] = append(pipelineErrs[i], &Error{Kind: ErrDuplicatePipeline, Pipeline: name})
			continue
		}
		names[name] = true

		keys := p.Shaders()
		if len(keys) == 0 {
			pipelineErrs[i] = append(pipelineErrs[i], &Error{Kind: ErrEmptyPipeline, Pipeline: name})
			continue
		}
		usable[i] = true
		for _, key := range keys {
			if _, ok := shaders[key]; !ok {
				pipelineErrs[i] = append(pipelineErrs[i], &Error{Kind: ErrUnknownShader, Pipeline: name, Shaders: []string{key}})
				usable[i] = false
				continue
			}
			if _, ok := referenced[key]; !ok {
				referenced[key] = len(order)
				order = append(order, key)
			}
		}
	}

	results := r.extractAll(shaders, order)

	var (
		errs     Errors
		warnings []Warning
	)
	for _, res := range results {
		warnings = append(warnings, res.warnings...)
		errs = appendErrors(errs, res.err)
	}

	layouts := make(map[string]Layout, len(pipelines))
	for i, p := range pipelines {
		if !usable[i] {
			continue
		}
		var (
			bindings []Binding
			failed   bool
		)
		for _, key := range p.Shaders() {
			res := results[referenced[key]]
			if res.err != nil {
				failed = true
				break
			}
			bindings = append(bindings, res.bindings...)
		}
		if failed {
			continue
		}
		if err := ValidateGroup(p.Name(), bindings); err != nil {
			pipelineErrs[i] = appendErrors(pipelineErrs[i], err)
			continue
		}
		layouts[p.Name()] = Merge(bindings)
	}

	for _, pe := range pipelineErrs {
		errs = append(errs, pe...)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	pool := Deduplicate(layouts)
	warnings = uniqueWarnings(warnings)
	for _, w := range warnings {
		r.logger.Printf("[Resolver] warning: %s", w)
	}
	r.logger.Printf("[Resolver] %d pipelines, %d shaders, %d unique layouts", len(pipelines), len(order), pool.Len())

	return &Resolution{Pool: pool, Warnings: warnings}, nil
}

// extractAll extracts and validates every referenced shader on a worker pool.
// Results are stored by index so the outcome does not depend on scheduling.
//
// Parameters:
//   - shaders: every available shader, keyed by shader key
//   - keys: the keys to extract, all present in shaders
//
// Returns:
//   - []extraction: one result per key, in key order
func (r *resolver) extractAll(shaders map[string]shader.Shader, keys []string) []extraction {
	results := make([]extraction, len(keys))
	if len(keys) == 0 {
		return results
	}

	var wg sync.WaitGroup
	for i, key := range keys {
		s := shaders[key]
		wg.Add(1)
		r.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				results[i] = r.extractShader(s)
				return nil, results[i].err
			},
		})
	}
	wg.Wait()

	return results
}

// extractShader runs extraction and intra-shader validation for one shader.
func (r *resolver) extractShader(s shader.Shader) extraction {
	bindings, warnings, err := Extract(s, r.policy)
	if err != nil {
		return extraction{err: err}
	}
	more, err := ValidateShader(s, bindings)
	warnings = append(warnings, more...)
	if err != nil {
		return extraction{warnings: warnings, err: err}
	}
	return extraction{bindings: bindings, warnings: warnings}
}

// appendErrors flattens err into errs. err is either an *Error or Errors.
func appendErrors(errs Errors, err error) Errors {
	switch e := err.(type) {
	case nil:
		return errs
	case *Error:
		return append(errs, e)
	case Errors:
		return append(errs, e...)
	default:
		panic("layout: unexpected error type")
	}
}

// uniqueWarnings drops repeated warnings, keeping the first occurrence.
func uniqueWarnings(warnings []Warning) []Warning {
	seen := make(map[Warning]bool, len(warnings))
	out := warnings[:0:0]
	for _, w := range warnings {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
