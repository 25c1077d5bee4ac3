package shader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// DefaultBuildDir is where compiled GLSL binaries are written when no build directory is configured.
const DefaultBuildDir = "build/bin"

// ErrUnsupportedExtension is returned for shader files the loader cannot acquire a reflection for.
var ErrUnsupportedExtension = errors.New("shader: unsupported file extension")

// Ref names a shader file as referenced from configuration, with optional stage and entry point overrides.
type Ref struct {
	Path       string
	Stage      Stage
	EntryPoint string
}

// Key returns the identifier a shader loaded from this reference is registered under.
// Overrides become part of the key so the same file built two different ways stays distinct.
//
// Returns:
//   - string: the path, followed by ":<stage>" and "@<entry>" when overridden
func (r Ref) Key() string {
	key := r.Path
	if r.Stage.Valid() {
		key += ":" + r.Stage.String()
	}
	if r.EntryPoint != "" {
		key += "@" + r.EntryPoint
	}
	return key
}

// loader is the implementation of the Loader interface.
type loader struct {
	roots     []string
	buildDir  string
	reflector Reflector
	compiler  Compiler
}

// Loader acquires reflected shaders from files. The file extension selects the acquisition path:
// ".json" is a pre-generated reflection document, ".wgsl" is reflected from source, GLSL sources
// (".glsl" or a stage extension such as ".vert") are compiled and then reflected, and ".spv" or
// extension-less files are reflected as SPIR-V binaries.
type Loader interface {
	// Load resolves ref across the configured roots and builds the reflected shader.
	//
	// Parameters:
	//   - ctx: cancels any external tool invocation
	//   - ref: the shader reference to load
	//
	// Returns:
	//   - Shader: the reflected shader, keyed by ref.Key()
	//   - error: an error if the file cannot be found, acquired or its entry point resolved
	Load(ctx context.Context, ref Ref) (Shader, error)

	// Roots returns the directories shader paths are resolved against.
	Roots() []string
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with all specified options applied.
//
// Parameters:
//   - options: optional builder options
//
// Returns:
//   - Loader: a loader using spirv-cross and glslangValidator unless overridden
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		buildDir: DefaultBuildDir,
	}
	for _, option := range options {
		option(l)
	}
	if l.reflector == nil {
		l.reflector = NewSpirvCross("")
	}
	if l.compiler == nil {
		l.compiler = NewGlslang("")
	}
	return l
}

func (l *loader) Roots() []string {
	return l.roots
}

func (l *loader) Load(ctx context.Context, ref Ref) (Shader, error) {
	path, err := Find(l.roots, ref.Path)
	if err != nil {
		return nil, err
	}

	declared := ref.Stage
	var (
		reflection *Reflection
		options    []ShaderBuilderOption
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading reflection %s", path)
		}
		if reflection, err = DecodeReflection(data); err != nil {
			return nil, errors.Wrapf(err, "decoding reflection %s", path)
		}

	case ext == ".wgsl":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading source %s", path)
		}
		if reflection, err = ReflectWGSL(string(data)); err != nil {
			return nil, errors.Wrapf(err, "reflecting %s", path)
		}
		options = append(options, WithSourcePath(path))

	case isSourceExtension(ext):
		if s, ok := StageFromExtension(ext); ok && !declared.Valid() {
			declared = s
		}
		binary := filepath.Join(l.buildDir, BinaryName(path, ref, declared))
		if err := l.compiler.Compile(ctx, path, declared, binary); err != nil {
			return nil, err
		}
		if reflection, err = l.reflectBinary(ctx, binary); err != nil {
			return nil, err
		}
		options = append(options, WithSourcePath(path), WithBinaryPath(binary))

	case ext == ".spv" || ext == "":
		if reflection, err = l.reflectBinary(ctx, path); err != nil {
			return nil, err
		}
		options = append(options, WithBinaryPath(path))

	default:
		return nil, errors.Wrapf(ErrUnsupportedExtension, "%s", path)
	}

	ep, err := ResolveEntryPoint(reflection, ref.EntryPoint, declared)
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s", ref.Path)
	}
	stage, _ := ep.Stage()
	options = append(options, WithEntryPoint(ep.Name))

	return NewShader(ref.Key(), stage, reflection, options...), nil
}

// BinaryName returns the file name a compiled GLSL source is written under inside the build directory.
// The name is prefixed with a hash of the absolute source path and the reference key, so sources sharing
// a base name and one source loaded with different overrides never write the same binary.
//
// Parameters:
//   - path: the located source path
//   - ref: the reference the source was loaded from
//   - stage: the stage the source is compiled for
//
// Returns:
//   - string: "<hash>-<base>[.<stage>].spv"
func BinaryName(path string, ref Ref, stage Stage) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	name := fmt.Sprintf("%08x-%s", uint32(xxhash.Sum64String(abs+"|"+ref.Key())), filepath.Base(path))
	if stage.Valid() {
		name += "." + stage.String()
	}
	return name + ".spv"
}

// reflectBinary runs the reflector over a SPIR-V binary and decodes its output.
func (l *loader) reflectBinary(ctx context.Context, path string) (*Reflection, error) {
	data, err := l.reflector.Reflect(ctx, path)
	if err != nil {
		return nil, err
	}
	reflection, err := DecodeReflection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding reflection of %s", path)
	}
	return reflection, nil
}

// Find locates a shader file. The path is tried as given first, then joined onto each root in order.
//
// Parameters:
//   - roots: the directories to search
//   - path: the shader path as written in configuration
//
// Returns:
//   - string: the first existing path
//   - error: an error wrapping os.ErrNotExist if no candidate exists
func Find(roots []string, path string) (string, error) {
	candidates := make([]string, 0, len(roots)+1)
	candidates = append(candidates, path)
	for _, root := range roots {
		candidates = append(candidates, filepath.Join(root, path))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.Wrapf(os.ErrNotExist, "unable to find shader %s", path)
}

// isSourceExtension reports whether ext names a GLSL source file.
func isSourceExtension(ext string) bool {
	if ext == ".glsl" {
		return true
	}
	_, ok := StageFromExtension(ext)
	return ok
}
