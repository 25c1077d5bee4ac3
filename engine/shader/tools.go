package shader

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	// DefaultSpirvCross is the executable name of the SPIR-V reflector.
	DefaultSpirvCross = "spirv-cross"

	// DefaultGlslang is the executable name of the GLSL to SPIR-V compiler.
	DefaultGlslang = "glslangValidator"
)

// ErrToolNotFound is returned when an external shader tool is not on the PATH.
var ErrToolNotFound = errors.New("shader: tool not found")

// Reflector produces spirv-cross style reflection JSON for a compiled SPIR-V binary.
type Reflector interface {
	// Reflect runs reflection over the binary at path.
	//
	// Parameters:
	//   - ctx: cancels the external process
	//   - path: the SPIR-V binary path
	//
	// Returns:
	//   - []byte: the reflection JSON document
	//   - error: ErrToolNotFound (wrapped) or the tool's failure output
	Reflect(ctx context.Context, path string) ([]byte, error)
}

// Compiler compiles GLSL source to a SPIR-V binary.
type Compiler interface {
	// Compile compiles the source at path into the binary at output.
	//
	// Parameters:
	//   - ctx: cancels the external process
	//   - path: the GLSL source path
	//   - stage: the stage to compile for, StageUnknown to let the compiler infer it from the extension
	//   - output: the binary path, its directory is created if missing
	//
	// Returns:
	//   - error: ErrToolNotFound (wrapped) or the tool's failure output
	Compile(ctx context.Context, path string, stage Stage, output string) error
}

// spirvCross is the Reflector backed by the spirv-cross executable.
type spirvCross struct {
	executable string
}

// glslang is the Compiler backed by the glslangValidator executable.
type glslang struct {
	executable string
}

var _ Reflector = &spirvCross{}
var _ Compiler = &glslang{}

// NewSpirvCross returns a Reflector that invokes `<executable> <binary> --reflect`.
//
// Parameters:
//   - executable: the executable name or path, empty for DefaultSpirvCross
//
// Returns:
//   - Reflector: the spirv-cross reflector
func NewSpirvCross(executable string) Reflector {
	if executable == "" {
		executable = DefaultSpirvCross
	}
	return &spirvCross{executable: executable}
}

// NewGlslang returns a Compiler that invokes `<executable> -V [-S <stage>] <source> -o <binary>`.
//
// Parameters:
//   - executable: the executable name or path, empty for DefaultGlslang
//
// Returns:
//   - Compiler: the glslangValidator compiler
func NewGlslang(executable string) Compiler {
	if executable == "" {
		executable = DefaultGlslang
	}
	return &glslang{executable: executable}
}

func (s *spirvCross) Reflect(ctx context.Context, path string) ([]byte, error) {
	out, err := runTool(ctx, s.executable, path, "--reflect")
	if err != nil {
		return nil, errors.Wrapf(err, "reflecting %s", path)
	}
	return out, nil
}

func (g *glslang) Compile(ctx context.Context, path string, stage Stage, output string) error {
	dir := filepath.Dir(output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating build directory %s", dir)
	}
	args := []string{"-V"}
	if stage.Valid() {
		args = append(args, "-S", stage.String())
	}
	args = append(args, path, "-o", output)
	if _, err := runTool(ctx, g.executable, args...); err != nil {
		return errors.Wrapf(err, "compiling %s", path)
	}
	return nil
}

// runTool runs an external executable and returns its stdout.
// A non-zero exit is reported together with both output streams.
func runTool(ctx context.Context, executable string, args ...string) ([]byte, error) {
	resolved, err := exec.LookPath(executable)
	if err != nil {
		return nil, errors.Wrapf(ErrToolNotFound, "%s: %v", executable, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, resolved, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "%s failed\nstdout:\n%s\nstderr:\n%s", executable, stdout.String(), stderr.String())
	}
	return stdout.Bytes(), nil
}
