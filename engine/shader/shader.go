package shader

import "fmt"

// shader is the implementation of the Shader interface.
// It holds everything the layout resolver needs to know about one compiled shader.
type shader struct {
	key        string
	stage      Stage
	entryPoint string
	reflection *Reflection

	sourcePath string
	binaryPath string
}

// Shader defines the interface for a reflected shader. It exposes the shader's unique key,
// the stage it runs in, its entry point and the reflection record describing its resources.
// A Shader is immutable once constructed.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for lookups and error messages.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Stage returns the pipeline stage of the shader's entry point.
	//
	// Returns:
	//   - Stage: the stage, never StageUnknown for a constructed shader
	Stage() Stage

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "main"), or empty if the reflector did not report one
	EntryPoint() string

	// Reflection returns the resource-reflection record of the shader.
	//
	// Returns:
	//   - *Reflection: the reflection record
	Reflection() *Reflection

	// SourcePath returns the path of the shader source, if one is known.
	SourcePath() string

	// BinaryPath returns the path of the compiled shader binary, if one is known.
	BinaryPath() string
}

var _ Shader = &shader{}

// NewShader creates a new Shader instance with all specified options applied.
// Panics if the key is empty or the stage is not a concrete stage, since both are programmer errors.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - stage: the stage the shader executes in
//   - reflection: the shader's reflection record, nil is treated as an empty record
//   - options: optional builder options
//
// Returns:
//   - Shader: a new Shader instance with the provided configuration
func NewShader(key string, stage Stage, reflection *Reflection, options ...ShaderBuilderOption) Shader {
	if key == "" {
		panic("shader: a shader must have a non-empty key")
	}
	if !stage.Valid() {
		panic(fmt.Sprintf("shader: %s must have a valid stage, got %d", key, stage))
	}
	if reflection == nil {
		reflection = NewReflection()
	}
	s := &shader{
		key:        key,
		stage:      stage,
		reflection: reflection,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Stage() Stage {
	return s.stage
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Reflection() *Reflection {
	return s.reflection
}

func (s *shader) SourcePath() string {
	return s.sourcePath
}

func (s *shader) BinaryPath() string {
	return s.binaryPath
}
