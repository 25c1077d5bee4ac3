package bindgroup

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-forge/engine/layout"
	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// classifyEntry builds a wgpu bind group layout entry from a merged layout entry.
//
// Parameters:
//   - e: the merged layout entry
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the descriptor entry
//   - error: an error if the entry cannot be expressed in WebGPU
func classifyEntry(e layout.Entry) (wgpu.BindGroupLayoutEntry, error) {
	if e.Count > 1 {
		return wgpu.BindGroupLayoutEntry{}, errors.Wrapf(ErrDescriptorArray, "%s[%d]", e.Type, e.Count)
	}
	visibility, err := Visibility(e.Stages)
	if err != nil {
		return wgpu.BindGroupLayoutEntry{}, err
	}

	entry := wgpu.BindGroupLayoutEntry{
		Binding:    e.Binding,
		Visibility: visibility,
	}

	switch e.Kind {
	case shader.KindUniformBuffer:
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case shader.KindStorageBuffer:
		// vertex shaders cannot write storage buffers
		if visibility&wgpu.ShaderStageVertex != 0 {
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		} else {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case shader.KindSeparateSampler:
		classifySampler(e.Type, &entry)
	case shader.KindSeparateImage:
		if !classifyTexture(e.Type, &entry) {
			return wgpu.BindGroupLayoutEntry{}, errors.Wrapf(ErrUnsupportedBinding, "texture type %s", e.Type)
		}
	case shader.KindStorageImage:
		if !classifyStorageImage(e.Type, &entry) {
			return wgpu.BindGroupLayoutEntry{}, errors.Wrapf(ErrUnsupportedBinding, "storage image type %s", e.Type)
		}
	default:
		return wgpu.BindGroupLayoutEntry{}, errors.Wrapf(ErrUnsupportedBinding, "%s", e.Kind)
	}
	return entry, nil
}

// classifySampler sets the sampler binding type, comparison samplers being recognized by their WGSL or GLSL name
func classifySampler(typeName string, entry *wgpu.BindGroupLayoutEntry) {
	switch typeName {
	case "sampler_comparison", "samplerShadow":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	default:
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	}
}

// classifyTexture populates the texture layout for a WGSL ("texture_2d<f32>", "texture_depth_2d")
// or GLSL ("texture2D", "utexture2DArray") sampled texture type.
//
// Parameters:
//   - typeName: the canonical texture type name
//   - entry: the bind group layout entry to populate
//
// Returns:
//   - bool: false if the type name is not a known texture type
func classifyTexture(typeName string, entry *wgpu.BindGroupLayoutEntry) bool {
	switch {
	case strings.HasPrefix(typeName, "texture_depth_"):
		return classifyDepthTexture(typeName, entry)
	case strings.HasPrefix(typeName, "texture_"):
		return classifySampledTexture(typeName, entry)
	}

	sampleType, suffix, ok := splitGLSLType(typeName, "texture")
	if !ok {
		return false
	}
	info, ok := glslDimensionMap[suffix]
	if !ok {
		return false
	}
	entry.Texture.SampleType = sampleType
	entry.Texture.ViewDimension = info.viewDimension
	entry.Texture.Multisampled = info.multisampled
	return true
}

// classifySampledTexture parses a WGSL sampled texture type and populates the texture layout fields
func classifySampledTexture(typeName string, entry *wgpu.BindGroupLayoutEntry) bool {
	base, param := splitTypeParams(typeName)

	info, ok := wgslSampledTextureMap[base]
	if !ok {
		return false
	}
	entry.Texture.ViewDimension = info.viewDimension
	entry.Texture.Multisampled = info.multisampled
	entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	if st, ok := wgslSampleTypeMap[param]; ok {
		entry.Texture.SampleType = st
	}
	return true
}

// classifyDepthTexture populates the texture layout fields for a WGSL depth texture type
func classifyDepthTexture(typeName string, entry *wgpu.BindGroupLayoutEntry) bool {
	info, ok := wgslSampledTextureMap[typeName]
	if !ok {
		return false
	}
	entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
	entry.Texture.ViewDimension = info.viewDimension
	entry.Texture.Multisampled = info.multisampled
	return true
}

// classifyStorageImage populates the storage texture layout for a WGSL ("texture_storage_2d<rgba8unorm,write>")
// or GLSL ("image2D", "uimage3D") storage image type. GLSL types carry no format or access qualifier
// after reflection, so they default to rgba8unorm (r32uint or r32sint for integer images) and write-only.
//
// Parameters:
//   - typeName: the canonical storage image type name
//   - entry: the bind group layout entry to populate
//
// Returns:
//   - bool: false if the type name is not a known storage image type
func classifyStorageImage(typeName string, entry *wgpu.BindGroupLayoutEntry) bool {
	if strings.HasPrefix(typeName, "texture_storage_") {
		return classifyStorageTexture(typeName, entry)
	}

	sampleType, suffix, ok := splitGLSLType(typeName, "image")
	if !ok {
		return false
	}
	info, ok := glslDimensionMap[suffix]
	if !ok || info.multisampled || info.viewDimension == wgpu.TextureViewDimensionCube || info.viewDimension == wgpu.TextureViewDimensionCubeArray {
		return false
	}
	entry.StorageTexture.ViewDimension = info.viewDimension
	entry.StorageTexture.Access = wgpu.StorageTextureAccessWriteOnly
	switch sampleType {
	case wgpu.TextureSampleTypeSint:
		entry.StorageTexture.Format = wgpu.TextureFormatR32Sint
	case wgpu.TextureSampleTypeUint:
		entry.StorageTexture.Format = wgpu.TextureFormatR32Uint
	default:
		entry.StorageTexture.Format = wgpu.TextureFormatRGBA8Unorm
	}
	return true
}

// classifyStorageTexture parses a WGSL storage texture type and populates the storage texture layout fields
func classifyStorageTexture(typeName string, entry *wgpu.BindGroupLayoutEntry) bool {
	base, params := splitTypeParams(typeName)

	dim, ok := wgslStorageTextureDimMap[base]
	if !ok {
		return false
	}
	entry.StorageTexture.ViewDimension = dim

	parts := strings.SplitN(params, ",", 2)
	format, ok := wgslTexelFormatMap[strings.TrimSpace(parts[0])]
	if !ok {
		return false
	}
	entry.StorageTexture.Format = format

	entry.StorageTexture.Access = wgpu.StorageTextureAccessWriteOnly
	if len(parts) == 2 {
		access, ok := wgslStorageAccessMap[strings.TrimSpace(parts[1])]
		if !ok {
			return false
		}
		entry.StorageTexture.Access = access
	}
	return true
}

// splitGLSLType splits a GLSL opaque type name such as "utexture2DArray" into its sample type
// and dimension suffix.
//
// Parameters:
//   - typeName: the GLSL type name
//   - prefix: the type family, "texture" or "image"
//
// Returns:
//   - wgpu.TextureSampleType: float, sint or uint from the scalar prefix
//   - string: the dimension suffix, e.g. "2DArray"
//   - bool: false if the name does not belong to the family
func splitGLSLType(typeName, prefix string) (wgpu.TextureSampleType, string, bool) {
	for scalar, sampleType := range glslSampleTypeMap {
		if rest, ok := strings.CutPrefix(typeName, scalar+prefix); ok {
			return sampleType, rest, true
		}
	}
	return wgpu.TextureSampleTypeUndefined, "", false
}

// splitTypeParams splits a WGSL parameterized type into its base name and parameter string.
// For "texture_2d<f32>" returns ("texture_2d", "f32").
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSpace(strings.TrimSuffix(after, ">"))
}
