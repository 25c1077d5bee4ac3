package pipeline

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithShaders appends shader keys to this pipeline, preserving their order.
//
// Parameters:
//   - keys: the shader keys to add
//
// Returns:
//   - PipelineBuilderOption: a function that adds the shaders to this pipeline
func WithShaders(keys ...string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.shaders = append(p.shaders, keys...)
	}
}
