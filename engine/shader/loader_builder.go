package shader

// LoaderBuilderOption is a functional option used to configure a Loader during construction.
type LoaderBuilderOption func(*loader)

// WithRoots sets the directories shader paths are resolved against, in search order.
//
// Parameters:
//   - roots: the root directories
//
// Returns:
//   - LoaderBuilderOption: a function that sets the roots for this loader
func WithRoots(roots ...string) LoaderBuilderOption {
	return func(l *loader) {
		l.roots = append([]string(nil), roots...)
	}
}

// WithBuildDir sets the directory compiled GLSL binaries are written to.
// An empty directory keeps DefaultBuildDir.
//
// Parameters:
//   - dir: the build directory
//
// Returns:
//   - LoaderBuilderOption: a function that sets the build directory for this loader
func WithBuildDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		if dir != "" {
			l.buildDir = dir
		}
	}
}

// WithReflector replaces the spirv-cross reflector.
//
// Parameters:
//   - r: the reflector to use for SPIR-V binaries
//
// Returns:
//   - LoaderBuilderOption: a function that sets the reflector for this loader
func WithReflector(r Reflector) LoaderBuilderOption {
	return func(l *loader) {
		l.reflector = r
	}
}

// WithCompiler replaces the glslangValidator compiler.
//
// Parameters:
//   - c: the compiler to use for GLSL sources
//
// Returns:
//   - LoaderBuilderOption: a function that sets the compiler for this loader
func WithCompiler(c Compiler) LoaderBuilderOption {
	return func(l *loader) {
		l.compiler = c
	}
}
