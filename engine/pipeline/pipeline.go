package pipeline

// pipeline is the implementation of the Pipeline interface.
// It holds the ordered shader keys that are combined into one pipeline.
type pipeline struct {
	// name is the unique identifier for this pipeline, used for the layout reference table and error messages
	name string

	// shaders are the shader keys in declaration order; the order is informational only
	shaders []string
}

// Pipeline defines the interface for a named group of shaders whose bindings share one layout.
// A Pipeline is immutable once constructed.
type Pipeline interface {
	// Name returns the unique name of this pipeline.
	//
	// Returns:
	//   - string: the pipeline name
	Name() string

	// Shaders returns the keys of the shaders combined into this pipeline, in declaration order.
	//
	// Returns:
	//   - []string: a copy of the shader keys
	Shaders() []string
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline instance with all specified options applied.
// Panics if the name is empty.
//
// Parameters:
//   - name: the unique pipeline name
//   - options: optional builder options
//
// Returns:
//   - Pipeline: a new Pipeline instance with the provided configuration
func NewPipeline(name string, options ...PipelineBuilderOption) Pipeline {
	if name == "" {
		panic("pipeline: a pipeline must have a non-empty name")
	}
	p := &pipeline{
		name: name,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *pipeline) Name() string {
	return p.name
}

func (p *pipeline) Shaders() []string {
	out := make([]string, len(p.shaders))
	copy(out, p.shaders)
	return out
}
