package bindgroup

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-forge/engine/layout"
	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(set, binding uint32, kind shader.ResourceKind, typ string, stages ...shader.Stage) layout.Entry {
	return layout.Entry{Set: set, Binding: binding, Kind: kind, Type: typ, Count: 1, Stages: stages}
}

func TestDescriptors_ForwardLayout(t *testing.T) {
	l := layout.Layout{Entries: []layout.Entry{
		entry(0, 0, shader.KindUniformBuffer, "ubo", shader.StageVertex, shader.StageFragment),
		entry(1, 0, shader.KindSeparateImage, "texture_2d<f32>", shader.StageFragment),
		entry(1, 1, shader.KindSeparateSampler, "sampler", shader.StageFragment),
		entry(1, 2, shader.KindSeparateSampler, "sampler_comparison", shader.StageFragment),
		entry(1, 3, shader.KindSeparateImage, "texture_depth_2d", shader.StageFragment),
	}}

	descs, err := Descriptors(l, "forward")
	require.NoError(t, err)
	require.Len(t, descs, 2)

	g0 := descs[0]
	assert.Equal(t, "forward group 0", g0.Label)
	require.Len(t, g0.Entries, 1)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g0.Entries[0].Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, g0.Entries[0].Buffer.Type)

	g1 := descs[1]
	assert.Equal(t, "forward group 1", g1.Label)
	require.Len(t, g1.Entries, 4)
	for i, e := range g1.Entries {
		assert.Equal(t, uint32(i), e.Binding)
		assert.Equal(t, wgpu.ShaderStageFragment, e.Visibility)
	}
	assert.Equal(t, wgpu.TextureSampleTypeFloat, g1.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, g1.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, g1.Entries[1].Sampler.Type)
	assert.Equal(t, wgpu.SamplerBindingTypeComparison, g1.Entries[2].Sampler.Type)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, g1.Entries[3].Texture.SampleType)
}

func TestDescriptors_StorageBuffers(t *testing.T) {
	l := layout.Layout{Entries: []layout.Entry{
		entry(0, 0, shader.KindStorageBuffer, "ssbo", shader.StageCompute),
		entry(0, 1, shader.KindStorageBuffer, "ssbo", shader.StageVertex),
	}}

	descs, err := Descriptors(l, "cull")
	require.NoError(t, err)
	entries := descs[0].Entries
	require.Len(t, entries, 2)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, entries[0].Buffer.Type)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, entries[1].Buffer.Type)
}

func TestClassifyTexture(t *testing.T) {
	tests := []struct {
		typ          string
		sampleType   wgpu.TextureSampleType
		dim          wgpu.TextureViewDimension
		multisampled bool
		ok           bool
	}{
		{typ: "texture2D", sampleType: wgpu.TextureSampleTypeFloat, dim: wgpu.TextureViewDimension2D, ok: true},
		{typ: "utexture2DArray", sampleType: wgpu.TextureSampleTypeUint, dim: wgpu.TextureViewDimension2DArray, ok: true},
		{typ: "itextureCube", sampleType: wgpu.TextureSampleTypeSint, dim: wgpu.TextureViewDimensionCube, ok: true},
		{typ: "texture2DMS", sampleType: wgpu.TextureSampleTypeFloat, dim: wgpu.TextureViewDimension2D, multisampled: true, ok: true},
		{typ: "texture_3d<u32>", sampleType: wgpu.TextureSampleTypeUint, dim: wgpu.TextureViewDimension3D, ok: true},
		{typ: "texture_multisampled_2d<i32>", sampleType: wgpu.TextureSampleTypeSint, dim: wgpu.TextureViewDimension2D, multisampled: true, ok: true},
		{typ: "texture_depth_cube", sampleType: wgpu.TextureSampleTypeDepth, dim: wgpu.TextureViewDimensionCube, ok: true},
		{typ: "texture1DArray"},
		{typ: "texture_external"},
		{typ: "sampled_image"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			var e wgpu.BindGroupLayoutEntry
			ok := classifyTexture(tt.typ, &e)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.sampleType, e.Texture.SampleType)
			assert.Equal(t, tt.dim, e.Texture.ViewDimension)
			assert.Equal(t, tt.multisampled, e.Texture.Multisampled)
		})
	}
}

func TestClassifyStorageImage(t *testing.T) {
	tests := []struct {
		typ    string
		format wgpu.TextureFormat
		access wgpu.StorageTextureAccess
		dim    wgpu.TextureViewDimension
		ok     bool
	}{
		{typ: "image2D", format: wgpu.TextureFormatRGBA8Unorm, access: wgpu.StorageTextureAccessWriteOnly, dim: wgpu.TextureViewDimension2D, ok: true},
		{typ: "uimage3D", format: wgpu.TextureFormatR32Uint, access: wgpu.StorageTextureAccessWriteOnly, dim: wgpu.TextureViewDimension3D, ok: true},
		{typ: "iimage2DArray", format: wgpu.TextureFormatR32Sint, access: wgpu.StorageTextureAccessWriteOnly, dim: wgpu.TextureViewDimension2DArray, ok: true},
		{typ: "texture_storage_2d<rgba16float,read_write>", format: wgpu.TextureFormatRGBA16Float, access: wgpu.StorageTextureAccessReadWrite, dim: wgpu.TextureViewDimension2D, ok: true},
		{typ: "texture_storage_3d<r32float,read>", format: wgpu.TextureFormatR32Float, access: wgpu.StorageTextureAccessReadOnly, dim: wgpu.TextureViewDimension3D, ok: true},
		{typ: "texture_storage_2d<rgba8unorm>", format: wgpu.TextureFormatRGBA8Unorm, access: wgpu.StorageTextureAccessWriteOnly, dim: wgpu.TextureViewDimension2D, ok: true},
		{typ: "imageCube"},
		{typ: "image2DMS"},
		{typ: "texture_storage_2d<r11g11b10float,write>"},
		{typ: "image"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			var e wgpu.BindGroupLayoutEntry
			ok := classifyStorageImage(tt.typ, &e)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.format, e.StorageTexture.Format)
			assert.Equal(t, tt.access, e.StorageTexture.Access)
			assert.Equal(t, tt.dim, e.StorageTexture.ViewDimension)
		})
	}
}

func TestDescriptors_Unsupported(t *testing.T) {
	tests := []struct {
		name  string
		entry layout.Entry
		want  error
	}{
		{name: "combined image sampler", entry: entry(0, 0, shader.KindTexture, "sampler2D", shader.StageFragment), want: ErrUnsupportedBinding},
		{name: "geometry stage", entry: entry(0, 0, shader.KindUniformBuffer, "ubo", shader.StageGeometry), want: ErrUnsupportedStage},
		{name: "unknown image", entry: entry(0, 0, shader.KindSeparateImage, "texture", shader.StageFragment), want: ErrUnsupportedBinding},
		{name: "array", entry: layout.Entry{Set: 0, Binding: 0, Kind: shader.KindSeparateImage, Type: "texture2D", Count: 4, Stages: []shader.Stage{shader.StageFragment}}, want: ErrDescriptorArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs, err := Descriptors(layout.Layout{Entries: []layout.Entry{tt.entry}}, "p")
			assert.Nil(t, descs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
			assert.Contains(t, err.Error(), "p: set 0, binding 0")
		})
	}
}

func TestPoolDescriptors(t *testing.T) {
	draw := layout.Layout{Entries: []layout.Entry{entry(0, 0, shader.KindUniformBuffer, "ubo", shader.StageVertex)}}
	compute := layout.Layout{Entries: []layout.Entry{entry(0, 0, shader.KindStorageBuffer, "ssbo", shader.StageCompute)}}
	pool := layout.Deduplicate(map[string]layout.Layout{"draw": draw, "shadow": draw, "cull": compute})

	descs, err := PoolDescriptors(pool)
	require.NoError(t, err)
	require.Len(t, descs, 2)

	drawKey := pool.References["draw"]
	require.Contains(t, descs, drawKey)
	assert.Equal(t, string(drawKey)+" group 0", descs[drawKey][0].Label)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, descs[pool.References["cull"]][0].Entries[0].Buffer.Type)
}

func TestVisibility(t *testing.T) {
	v, err := Visibility([]shader.Stage{shader.StageVertex, shader.StageFragment, shader.StageCompute})
	require.NoError(t, err)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment|wgpu.ShaderStageCompute, v)

	v, err = Visibility(nil)
	require.NoError(t, err)
	assert.Equal(t, wgpu.ShaderStageNone, v)

	_, err = Visibility([]shader.Stage{shader.StageMesh})
	assert.True(t, errors.Is(err, ErrUnsupportedStage))
}
