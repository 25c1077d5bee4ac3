package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPipeline(t *testing.T) {
	p := NewPipeline("forward", WithShaders("mesh.vert"), WithShaders("mesh.frag", "mesh.vert"))

	assert.Equal(t, "forward", p.Name())
	assert.Equal(t, []string{"mesh.vert", "mesh.frag", "mesh.vert"}, p.Shaders())

	shaders := p.Shaders()
	shaders[0] = "changed"
	assert.Equal(t, "mesh.vert", p.Shaders()[0])
}

func TestNewPipeline_Empty(t *testing.T) {
	assert.Panics(t, func() { NewPipeline("") })
	assert.Empty(t, NewPipeline("none").Shaders())
}
