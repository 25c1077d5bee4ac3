package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-forge/engine/layout"
	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by the format field.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnsupportedConfig is returned for configuration files that are neither YAML nor JSON.
var ErrUnsupportedConfig = errors.New("config: unsupported configuration file extension")

// Config is the declarative description of the pipelines to resolve and how to acquire their shaders.
type Config struct {
	// Pipelines lists every pipeline in declaration order.
	Pipelines []Pipeline `yaml:"pipelines"`

	// Roots are searched, in order, for shader paths that do not exist as written.
	Roots []string `yaml:"roots,omitempty"`

	// BuildDir receives GLSL sources compiled to SPIR-V.
	BuildDir string `yaml:"build_dir,omitempty"`

	// ArrayPolicy is "warn" (default) or "strict".
	ArrayPolicy string `yaml:"array_policy,omitempty"`

	// Workers bounds the parallel shader extraction, 0 for the default.
	Workers int `yaml:"workers,omitempty"`

	// Output is the file the resolved layouts are written to, empty for stdout.
	Output string `yaml:"output,omitempty"`

	// Format is "json" (default) or "yaml".
	Format string `yaml:"format,omitempty"`

	// Dir is the directory the configuration was loaded from. It is searched after Roots.
	Dir string `yaml:"-"`
}

// Pipeline names a group of shaders that share one layout.
type Pipeline struct {
	Name    string   `yaml:"name"`
	Shaders []Shader `yaml:"shaders"`
}

// Shader references one shader file. In configuration it is either a plain path
// or a mapping with path, stage and entry_point.
type Shader struct {
	Path       string `yaml:"path"`
	Stage      string `yaml:"stage,omitempty"`
	EntryPoint string `yaml:"entry_point,omitempty"`
}

// UnmarshalYAML accepts both the scalar and the mapping form of a shader reference.
func (s *Shader) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Path = value.Value
		return nil
	}
	type plain Shader
	return value.Decode((*plain)(s))
}

// Ref converts the reference into a loader reference.
//
// Returns:
//   - shader.Ref: the path with the parsed stage and entry point
//   - error: an error if the stage is set but not a known stage
func (s Shader) Ref() (shader.Ref, error) {
	ref := shader.Ref{Path: s.Path, EntryPoint: s.EntryPoint}
	if s.Stage != "" {
		stage, ok := shader.ParseStage(s.Stage)
		if !ok {
			return shader.Ref{}, errors.Errorf("config: shader %s: unknown stage %q", s.Path, s.Stage)
		}
		ref.Stage = stage
	}
	return ref, nil
}

// Load reads and validates a configuration file. The extension selects the format:
// ".yaml" and ".yml" are YAML, ".json" is JSON read through the YAML decoder.
//
// Parameters:
//   - path: the configuration file path
//
// Returns:
//   - *Config: the validated configuration with Dir set to the file's directory
//   - error: an error if the file cannot be read, has an unsupported extension or is invalid
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, errors.Wrapf(ErrUnsupportedConfig, "%s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes and validates configuration data. Unknown fields are rejected.
//
// Parameters:
//   - data: YAML or JSON configuration
//
// Returns:
//   - *Config: the validated configuration
//   - error: an error if decoding or validation fails
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("config: empty configuration")
		}
		return nil, errors.Wrap(err, "config: decoding")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for problems that would otherwise surface halfway through a run.
//
// Returns:
//   - error: the first problem found, or nil
func (c *Config) Validate() error {
	if len(c.Pipelines) == 0 {
		return errors.New("config: no pipelines")
	}
	names := make(map[string]bool, len(c.Pipelines))
	for i, p := range c.Pipelines {
		if p.Name == "" {
			return errors.Errorf("config: pipeline %d has no name", i)
		}
		if names[p.Name] {
			return errors.Errorf("config: pipeline %s is declared more than once", p.Name)
		}
		names[p.Name] = true
		if len(p.Shaders) == 0 {
			return errors.Errorf("config: pipeline %s has no shaders", p.Name)
		}
		for _, s := range p.Shaders {
			if s.Path == "" {
				return errors.Errorf("config: pipeline %s has a shader without a path", p.Name)
			}
			if _, err := s.Ref(); err != nil {
				return err
			}
		}
	}
	if _, err := layout.ParseArrayPolicy(c.ArrayPolicy); err != nil {
		return errors.Wrap(err, "config")
	}
	if c.Workers < 0 {
		return errors.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	switch c.Format {
	case "", FormatJSON, FormatYAML:
	default:
		return errors.Errorf("config: unknown format %q", c.Format)
	}
	return nil
}

// Policy returns the parsed array policy.
//
// Returns:
//   - layout.ArrayPolicy: the policy, ArrayPolicyWarn when unset
func (c *Config) Policy() layout.ArrayPolicy {
	p, _ := layout.ParseArrayPolicy(c.ArrayPolicy)
	return p
}

// SearchRoots returns the configured roots followed by the configuration's own directory.
// Relative roots are taken relative to that directory.
//
// Returns:
//   - []string: the shader search roots in order
func (c *Config) SearchRoots() []string {
	roots := make([]string, 0, len(c.Roots)+1)
	for _, r := range c.Roots {
		if c.Dir != "" && !filepath.IsAbs(r) {
			r = filepath.Join(c.Dir, r)
		}
		roots = append(roots, r)
	}
	if c.Dir != "" {
		roots = append(roots, c.Dir)
	}
	return roots
}
