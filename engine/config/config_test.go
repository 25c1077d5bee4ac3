package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-forge/engine/layout"
	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forwardYAML = `
roots: [shaders, /opt/shaders]
build_dir: build/spv
array_policy: strict
workers: 2
format: yaml
pipelines:
  - name: forward
    shaders:
      - mesh.vert
      - path: mesh.frag
        stage: fragment
        entry_point: main
  - name: cull
    shaders:
      - path: cull.comp.json
`

func TestParse_YAML(t *testing.T) {
	cfg, err := Parse([]byte(forwardYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"shaders", "/opt/shaders"}, cfg.Roots)
	assert.Equal(t, "build/spv", cfg.BuildDir)
	assert.Equal(t, layout.ArrayPolicyStrict, cfg.Policy())
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, FormatYAML, cfg.Format)

	require.Len(t, cfg.Pipelines, 2)
	assert.Equal(t, Pipeline{
		Name: "forward",
		Shaders: []Shader{
			{Path: "mesh.vert"},
			{Path: "mesh.frag", Stage: "fragment", EntryPoint: "main"},
		},
	}, cfg.Pipelines[0])

	ref, err := cfg.Pipelines[0].Shaders[1].Ref()
	require.NoError(t, err)
	assert.Equal(t, shader.Ref{Path: "mesh.frag", Stage: shader.StageFragment, EntryPoint: "main"}, ref)
}

func TestParse_JSON(t *testing.T) {
	cfg, err := Parse([]byte(`{"pipelines": [{"name": "p", "shaders": ["a.spv", {"path": "b.spv", "stage": "frag"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, []Shader{{Path: "a.spv"}, {Path: "b.spv", Stage: "frag"}}, cfg.Pipelines[0].Shaders)
	assert.Equal(t, layout.ArrayPolicyWarn, cfg.Policy())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "no pipelines", data: "roots: [a]"},
		{name: "unknown field", data: "pipelines: [{name: p, shaders: [a]}]\nextra: 1"},
		{name: "unnamed pipeline", data: "pipelines: [{shaders: [a]}]"},
		{name: "duplicate pipeline", data: "pipelines: [{name: p, shaders: [a]}, {name: p, shaders: [b]}]"},
		{name: "no shaders", data: "pipelines: [{name: p}]"},
		{name: "empty path", data: "pipelines: [{name: p, shaders: [{stage: vert}]}]"},
		{name: "bad stage", data: "pipelines: [{name: p, shaders: [{path: a, stage: pixel}]}]"},
		{name: "bad policy", data: "array_policy: lax\npipelines: [{name: p, shaders: [a]}]"},
		{name: "negative workers", data: "workers: -1\npipelines: [{name: p, shaders: [a]}]"},
		{name: "bad format", data: "format: toml\npipelines: [{name: p, shaders: [a]}]"},
		{name: "not a mapping", data: "- a\n- b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forge.yml")
	require.NoError(t, os.WriteFile(path, []byte(forwardYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, []string{filepath.Join(dir, "shaders"), "/opt/shaders", dir}, cfg.SearchRoots())

	_, err = Load(filepath.Join(dir, "forge.toml"))
	assert.True(t, errors.Is(err, ErrUnsupportedConfig))

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSearchRoots_NoDir(t *testing.T) {
	cfg := &Config{Roots: []string{"a", "b"}}
	assert.Equal(t, []string{"a", "b"}, cfg.SearchRoots())
}
