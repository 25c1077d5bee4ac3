package engine

import (
	"log"

	"github.com/Carmen-Shannon/oxy-forge/engine/layout"
	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
)

// ForgeBuilderOption is a functional option for configuring a Forge.
// Use the With* functions to create options that are applied directly to the forge instance.
type ForgeBuilderOption func(*forge)

// WithProfiling enables or disables per-phase timing output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - ForgeBuilderOption: option function to apply
func WithProfiling(enabled bool) ForgeBuilderOption {
	return func(f *forge) {
		f.profilingEnabled = enabled
	}
}

// WithLogger sets the logger the forge, its resolver and its profiler write to.
// A nil logger keeps the standard logger.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - ForgeBuilderOption: option function to apply
func WithLogger(logger *log.Logger) ForgeBuilderOption {
	return func(f *forge) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithConfigRoots adds shader search roots that are searched before the configuration's own roots.
//
// Parameters:
//   - roots: the extra root directories
//
// Returns:
//   - ForgeBuilderOption: option function to apply
func WithConfigRoots(roots ...string) ForgeBuilderOption {
	return func(f *forge) {
		f.roots = append(f.roots, roots...)
	}
}

// WithBuildDir overrides the configuration's build directory for compiled GLSL.
//
// Parameters:
//   - dir: the build directory; empty keeps the configured one
//
// Returns:
//   - ForgeBuilderOption: option function to apply
func WithBuildDir(dir string) ForgeBuilderOption {
	return func(f *forge) {
		f.buildDir = dir
	}
}

// WithWorkers sets the size of the default worker pool shaders are loaded and extracted on.
// Defaults to runtime.NumCPU()-1. A configuration's own workers setting takes precedence for its run.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - ForgeBuilderOption: option function to apply
func WithWorkers(n int) ForgeBuilderOption {
	return func(f *forge) {
		f.workers = max(n, 1)
	}
}

// WithLoader sets a custom shader loader rather than building one from the configuration.
// Configured roots and build directory are ignored when a loader is provided.
//
// Parameters:
//   - l: a pre-configured Loader instance
//
// Returns:
//   - ForgeBuilderOption: option function to apply
func WithLoader(l shader.Loader) ForgeBuilderOption {
	return func(f *forge) {
		f.loader = l
	}
}

// WithResolver sets a custom resolver rather than building one from the configuration.
//
// Parameters:
//   - r: a pre-configured Resolver instance
//
// Returns:
//   - ForgeBuilderOption: option function to apply
func WithResolver(r layout.Resolver) ForgeBuilderOption {
	return func(f *forge) {
		f.resolver = r
	}
}

// WithWebGPUCheck makes a run fail unless every pooled layout converts to WebGPU bind group layout descriptors.
//
// Parameters:
//   - enabled: if true, converts the pool after resolution
//
// Returns:
//   - ForgeBuilderOption: option function to apply
func WithWebGPUCheck(enabled bool) ForgeBuilderOption {
	return func(f *forge) {
		f.checkWebGPU = enabled
	}
}
