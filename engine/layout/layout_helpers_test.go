package layout

import (
	"fmt"
	"io"
	"log"

	"github.com/Carmen-Shannon/oxy-forge/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
)

// decl is a resource declaration used to build test shaders.
type decl struct {
	kind    shader.ResourceKind
	set     uint32
	binding uint32
	typ     string
	alias   bool
	array   []uint32
	literal []bool
}

// block declares a uniform or storage block whose type is a reflected alias, the way spirv-cross reports them.
func block(kind shader.ResourceKind, set, binding uint32) decl {
	return decl{kind: kind, set: set, binding: binding, typ: fmt.Sprintf("_%d_%d", set, binding), alias: true}
}

func ubo(set, binding uint32) decl {
	return block(shader.KindUniformBuffer, set, binding)
}

func ssbo(set, binding uint32) decl {
	return block(shader.KindStorageBuffer, set, binding)
}

func texture(set, binding uint32) decl {
	return decl{kind: shader.KindTexture, set: set, binding: binding, typ: "sampler2D"}
}

func sampler(set, binding uint32) decl {
	return decl{kind: shader.KindSeparateSampler, set: set, binding: binding, typ: "sampler"}
}

func image(set, binding uint32) decl {
	return decl{kind: shader.KindStorageImage, set: set, binding: binding, typ: "image2D"}
}

func sampledImage(set, binding uint32) decl {
	return decl{kind: shader.KindSeparateImage, set: set, binding: binding, typ: "texture2D"}
}

func (d decl) withArray(dims []uint32, literal []bool) decl {
	d.array = dims
	d.literal = literal
	return d
}

func newShader(key string, stage shader.Stage, decls ...decl) shader.Shader {
	r := shader.NewReflection()
	r.EntryPoints = []shader.EntryPoint{{Name: "main", Mode: stage.String()}}
	for i, d := range decls {
		if d.alias {
			r.Types[d.typ] = shader.TypeAlias{Name: fmt.Sprintf("Block%d", i)}
		}
		r.Add(d.kind, shader.Member{
			Type:               d.typ,
			Name:               fmt.Sprintf("res%d", i),
			Set:                d.set,
			Binding:            d.binding,
			Array:              d.array,
			ArraySizeIsLiteral: d.literal,
		})
	}
	return shader.NewShader(key, stage, r, shader.WithEntryPoint("main"))
}

func shaderMap(shaders ...shader.Shader) map[string]shader.Shader {
	m := make(map[string]shader.Shader, len(shaders))
	for _, s := range shaders {
		m[s.Key()] = s
	}
	return m
}

func newPipeline(name string, keys ...string) pipeline.Pipeline {
	return pipeline.NewPipeline(name, pipeline.WithShaders(keys...))
}

func quietResolver(options ...ResolverBuilderOption) Resolver {
	return NewResolver(append([]ResolverBuilderOption{WithLogger(log.New(io.Discard, "", 0))}, options...)...)
}

// mustExtract extracts bindings, panicking on error.
func mustExtract(s shader.Shader) []Binding {
	bindings, _, err := Extract(s, ArrayPolicyWarn)
	if err != nil {
		panic(err)
	}
	return bindings
}
