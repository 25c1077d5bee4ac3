package shader

// ResourceKind is the closed set of top-level categories a reflection record may contain.
// Binding kinds produce descriptor bindings; the others are recognized but never bound.
type ResourceKind int

const (
	// KindUniformBuffer is a uniform buffer block ("ubos").
	KindUniformBuffer ResourceKind = iota

	// KindStorageBuffer is a shader storage buffer block ("ssbos").
	KindStorageBuffer

	// KindTexture is a combined image sampler ("textures").
	KindTexture

	// KindSeparateImage is a sampled image without a sampler ("separate_images").
	KindSeparateImage

	// KindSeparateSampler is a standalone sampler ("separate_samplers").
	KindSeparateSampler

	// KindStorageImage is a storage image ("images").
	KindStorageImage

	// KindSubpassInput is an input attachment ("subpass_inputs"). Recognized but unsupported.
	KindSubpassInput

	// KindInput is a stage input variable ("inputs").
	KindInput

	// KindOutput is a stage output variable ("outputs").
	KindOutput

	// KindEntryPoint is the entry point list ("entryPoints").
	KindEntryPoint

	// KindTypeAlias is the reflected type table ("types").
	KindTypeAlias

	kindCount
)

type kindInfo struct {
	reflectKey     string
	name           string
	descriptorType string
	binding        bool
}

var kindTable = [kindCount]kindInfo{
	KindUniformBuffer:   {"ubos", "ubo", "VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER", true},
	KindStorageBuffer:   {"ssbos", "ssbo", "VK_DESCRIPTOR_TYPE_STORAGE_BUFFER", true},
	KindTexture:         {"textures", "texture", "VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER", true},
	KindSeparateImage:   {"separate_images", "sampled_image", "VK_DESCRIPTOR_TYPE_SAMPLED_IMAGE", true},
	KindSeparateSampler: {"separate_samplers", "sampler", "VK_DESCRIPTOR_TYPE_SAMPLER", true},
	KindStorageImage:    {"images", "image", "VK_DESCRIPTOR_TYPE_STORAGE_IMAGE", true},
	KindSubpassInput:    {"subpass_inputs", "subpass_input", "VK_DESCRIPTOR_TYPE_INPUT_ATTACHMENT", false},
	KindInput:           {"inputs", "input", "", false},
	KindOutput:          {"outputs", "output", "", false},
	KindEntryPoint:      {"entryPoints", "entry_point", "", false},
	KindTypeAlias:       {"types", "type_alias", "", false},
}

// bindingKinds is the fixed extraction order. Subpass inputs are deliberately absent.
var bindingKinds = [...]ResourceKind{
	KindUniformBuffer,
	KindStorageBuffer,
	KindTexture,
	KindSeparateImage,
	KindSeparateSampler,
	KindStorageImage,
}

// BindingKinds returns the resource kinds that produce descriptor bindings, in extraction order.
//
// Returns:
//   - []ResourceKind: a fresh slice of the binding kinds
func BindingKinds() []ResourceKind {
	out := make([]ResourceKind, len(bindingKinds))
	copy(out, bindingKinds[:])
	return out
}

// String returns the canonical name of the kind, e.g. "ubo" or "texture".
// This is also the name a binding's type is canonicalized to when its declared type is a reflected alias.
func (k ResourceKind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindTable[k].name
}

// ReflectKey returns the top-level key the kind is reported under in a reflection record.
func (k ResourceKind) ReflectKey() string {
	if k < 0 || k >= kindCount {
		return ""
	}
	return kindTable[k].reflectKey
}

// DescriptorType returns the VkDescriptorType name for binding kinds, or an empty string for non-binding kinds.
func (k ResourceKind) DescriptorType() string {
	if k < 0 || k >= kindCount {
		return ""
	}
	return kindTable[k].descriptorType
}

// IsBinding reports whether resources of this kind are extracted as descriptor bindings.
func (k ResourceKind) IsBinding() bool {
	if k < 0 || k >= kindCount {
		return false
	}
	return kindTable[k].binding
}

// ParseResourceKind maps a reflection record's top-level key to its kind.
//
// Parameters:
//   - key: the reflection key (e.g. "ubos", "separate_images")
//
// Returns:
//   - ResourceKind: the matching kind
//   - bool: false if the key is not part of the recognized set
func ParseResourceKind(key string) (ResourceKind, bool) {
	for k := ResourceKind(0); k < kindCount; k++ {
		if kindTable[k].reflectKey == key {
			return k, true
		}
	}
	return 0, false
}

// ParseKindName maps a canonical kind name ("ubo", "texture", ...) back to its kind.
//
// Parameters:
//   - name: the canonical name
//
// Returns:
//   - ResourceKind: the matching kind
//   - bool: false if no kind has that canonical name
func ParseKindName(name string) (ResourceKind, bool) {
	for k := ResourceKind(0); k < kindCount; k++ {
		if kindTable[k].name == name {
			return k, true
		}
	}
	return 0, false
}
