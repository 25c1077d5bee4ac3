package engine

import (
	"context"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-forge/common"
	"github.com/Carmen-Shannon/oxy-forge/engine/bindgroup"
	"github.com/Carmen-Shannon/oxy-forge/engine/config"
	"github.com/Carmen-Shannon/oxy-forge/engine/layout"
	"github.com/Carmen-Shannon/oxy-forge/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-forge/engine/profiler"
	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
	"github.com/pkg/errors"
)

// forge implements the Forge interface.
// Coordinates shader acquisition, layout resolution and the optional WebGPU descriptor check.
type forge struct {
	logger *log.Logger

	loader   shader.Loader
	resolver layout.Resolver

	roots    []string
	buildDir string

	workers int
	poolsMu sync.Mutex
	pools   map[int]worker.DynamicWorkerPool

	profilingEnabled bool
	checkWebGPU      bool
}

// Forge is the main entry point for a layout resolution run.
// It turns a configuration into a resolved, deduplicated layout pool.
type Forge interface {
	// Run acquires every shader the configuration references, builds its pipelines and resolves them.
	// Each distinct shader reference is loaded once, in the order it is first referenced.
	//
	// Parameters:
	//   - ctx: cancels shader acquisition
	//   - cfg: a validated configuration
	//
	// Returns:
	//   - *layout.Resolution: the layout pool, reference table and warnings
	//   - error: the first load error in reference order, layout.Errors from resolution, or a descriptor conversion error
	Run(ctx context.Context, cfg *config.Config) (*layout.Resolution, error)

	// Load acquires every shader the configuration references and builds its pipelines without resolving them.
	//
	// Parameters:
	//   - ctx: cancels shader acquisition
	//   - cfg: a validated configuration
	//
	// Returns:
	//   - map[string]shader.Shader: the loaded shaders keyed by reference key
	//   - []pipeline.Pipeline: the pipelines in declaration order
	//   - error: the first load error in reference order
	Load(ctx context.Context, cfg *config.Config) (map[string]shader.Shader, []pipeline.Pipeline, error)
}

var _ Forge = &forge{}

// NewForge creates a new Forge instance with the provided options.
// Without WithLoader and WithResolver both are built per run from the configuration.
// The worker pool loading and extraction run on is started here and shared by every run.
//
// Parameters:
//   - options: functional options for forge configuration (profiling, roots, collaborators, etc.)
//
// Returns:
//   - Forge: the newly created forge
func NewForge(options ...ForgeBuilderOption) Forge {
	f := &forge{
		logger:  log.Default(),
		workers: max(runtime.NumCPU()-1, 1),
		pools:   make(map[int]worker.DynamicWorkerPool),
	}
	for _, option := range options {
		option(f)
	}
	f.pools[f.workers] = worker.NewDynamicWorkerPool(f.workers, 256, 1*time.Second)
	return f
}

func (f *forge) Run(ctx context.Context, cfg *config.Config) (*layout.Resolution, error) {
	var prof *profiler.Profiler
	if f.profilingEnabled {
		prof = profiler.NewProfiler(f.logger)
	}

	shaders, pipelines, err := f.Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if prof != nil {
		prof.Mark("load")
	}

	res, err := f.resolverFor(cfg).Resolve(shaders, pipelines)
	if err != nil {
		return nil, err
	}
	if prof != nil {
		prof.Mark("resolve")
	}

	if f.checkWebGPU {
		descs, err := bindgroup.PoolDescriptors(res.Pool)
		if err != nil {
			return nil, err
		}
		f.logger.Printf("[Forge] %d layouts convert to WebGPU bind group layouts", len(descs))
		if prof != nil {
			prof.Mark("webgpu")
		}
	}

	if prof != nil {
		f.logger.Printf("[Forge] total: %s", prof.Total())
	}
	return res, nil
}

func (f *forge) Load(ctx context.Context, cfg *config.Config) (map[string]shader.Shader, []pipeline.Pipeline, error) {
	var (
		refs      []shader.Ref
		seen      = make(map[string]bool)
		pipelines = make([]pipeline.Pipeline, 0, len(cfg.Pipelines))
	)
	for _, p := range cfg.Pipelines {
		keys := make([]string, 0, len(p.Shaders))
		for _, s := range p.Shaders {
			ref, err := s.Ref()
			if err != nil {
				return nil, nil, errors.Wrapf(err, "pipeline %s", p.Name)
			}
			key := ref.Key()
			keys = append(keys, key)
			if !seen[key] {
				seen[key] = true
				refs = append(refs, ref)
			}
		}
		pipelines = append(pipelines, pipeline.NewPipeline(p.Name, pipeline.WithShaders(keys...)))
	}

	loaded, err := f.loadAll(ctx, f.loaderFor(cfg), refs, f.poolFor(cfg.Workers))
	if err != nil {
		return nil, nil, err
	}

	shaders := make(map[string]shader.Shader, len(loaded))
	for _, s := range loaded {
		shaders[s.Key()] = s
	}
	f.logger.Printf("[Forge] loaded %d shaders for %d pipelines", len(shaders), len(pipelines))
	return shaders, pipelines, nil
}

// loadAll loads every reference on a worker pool. Results are stored by index so the
// reported error is the first failure in reference order regardless of scheduling.
//
// Parameters:
//   - ctx: cancels shader acquisition
//   - l: the loader to use
//   - refs: the distinct references to load
//   - pool: the running pool to load on
//
// Returns:
//   - []shader.Shader: one shader per reference, in reference order
//   - error: the first load error, wrapped with the reference key
func (f *forge) loadAll(ctx context.Context, l shader.Loader, refs []shader.Ref, pool worker.DynamicWorkerPool) ([]shader.Shader, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	shaders := make([]shader.Shader, len(refs))
	errs := make([]error, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: ref,
			Do: func() (any, error) {
				defer wg.Done()
				shaders[i], errs[i] = l.Load(ctx, ref)
				return shaders[i], errs[i]
			},
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "forge: load %s", refs[i].Key())
		}
	}
	return shaders, nil
}

// poolFor returns the running pool with n workers, starting it on first use.
// n < 1 selects the forge's default pool.
func (f *forge) poolFor(n int) worker.DynamicWorkerPool {
	if n < 1 {
		n = f.workers
	}
	f.poolsMu.Lock()
	defer f.poolsMu.Unlock()
	pool, ok := f.pools[n]
	if !ok {
		pool = worker.NewDynamicWorkerPool(n, 256, 1*time.Second)
		f.pools[n] = pool
	}
	return pool
}

// loaderFor returns the configured loader, or one built from the configuration's roots and build directory.
func (f *forge) loaderFor(cfg *config.Config) shader.Loader {
	if f.loader != nil {
		return f.loader
	}
	return shader.NewLoader(
		shader.WithRoots(append(append([]string{}, f.roots...), cfg.SearchRoots()...)...),
		shader.WithBuildDir(common.Coalesce(f.buildDir, cfg.BuildDir)),
	)
}

// resolverFor returns the configured resolver, or one built from the configuration's array policy
// that extracts on the forge's pool for the configured worker count.
func (f *forge) resolverFor(cfg *config.Config) layout.Resolver {
	if f.resolver != nil {
		return f.resolver
	}
	return layout.NewResolver(
		layout.WithLogger(f.logger),
		layout.WithArrayPolicy(cfg.Policy()),
		layout.WithPool(f.poolFor(cfg.Workers)),
	)
}
