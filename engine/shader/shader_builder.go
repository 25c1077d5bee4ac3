package shader

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint sets the entry point name of the shader.
//
// Parameters:
//   - name: the entry point function name
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point for this shader
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = name
	}
}

// WithSourcePath records the path of the shader source.
//
// Parameters:
//   - path: the source file path
//
// Returns:
//   - ShaderBuilderOption: a function that sets the source path for this shader
func WithSourcePath(path string) ShaderBuilderOption {
	return func(s *shader) {
		s.sourcePath = path
	}
}

// WithBinaryPath records the path of the compiled shader binary.
//
// Parameters:
//   - path: the SPIR-V binary path
//
// Returns:
//   - ShaderBuilderOption: a function that sets the binary path for this shader
func WithBinaryPath(path string) ShaderBuilderOption {
	return func(s *shader) {
		s.binaryPath = path
	}
}
