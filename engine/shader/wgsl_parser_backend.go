package shader

import (
	"strconv"
	"strings"
)

// classifyWGSLResource determines the binding kind of a WGSL resource declaration from
// its address space qualifier and element type name.
//
// Parameters:
//   - addressSpace: the address space qualifier (e.g. "uniform", "storage, read_write"), empty for handle types
//   - typeName: the normalized element type (e.g. "CameraUniform", "texture_2d<f32>", "sampler")
//
// Returns:
//   - ResourceKind: the binding kind the declaration belongs to
//   - bool: false if the declaration is not a bindable resource
func classifyWGSLResource(addressSpace, typeName string) (ResourceKind, bool) {
	if addressSpace != "" {
		switch {
		case addressSpace == "uniform":
			return KindUniformBuffer, true
		case strings.HasPrefix(addressSpace, "storage"):
			return KindStorageBuffer, true
		}
		return 0, false
	}

	switch {
	case typeName == "sampler", typeName == "sampler_comparison":
		return KindSeparateSampler, true
	case strings.HasPrefix(typeName, "texture_storage_"):
		return KindStorageImage, true
	case strings.HasPrefix(typeName, "texture_"):
		return KindSeparateImage, true
	}
	return 0, false
}

// unwrapBindingArray splits a `binding_array<T, N>` type into its element type and size.
// A size that is not an integer literal (an override constant, or no size at all) is
// reported as a single non-literal dimension of 0. Non-array types pass through unchanged.
//
// Parameters:
//   - typeName: the normalized WGSL type
//
// Returns:
//   - elem: the element type
//   - dims: the array dimensions, nil when typeName is not a binding array
//   - literal: per-dimension literal flags, nil when typeName is not a binding array
func unwrapBindingArray(typeName string) (elem string, dims []uint32, literal []bool) {
	base, params := splitTypeParams(typeName)
	if base != "binding_array" {
		return typeName, nil, nil
	}

	parts := splitAtTopLevelCommas(params)
	elem = strings.TrimSpace(parts[0])
	if len(parts) < 2 {
		return elem, []uint32{0}, []bool{false}
	}
	size, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return elem, []uint32{0}, []bool{false}
	}
	return elem, []uint32{uint32(size)}, []bool{true}
}

// normalizeWGSLType removes all whitespace from a WGSL type so that
// "texture_storage_2d<rgba8unorm, write>" and "texture_storage_2d<rgba8unorm,write>" compare equal.
//
// Parameters:
//   - typeName: the WGSL type as written
//
// Returns:
//   - string: the type without whitespace
func normalizeWGSLType(typeName string) string {
	return strings.Join(strings.Fields(typeName), "")
}

// splitTypeParams splits a WGSL parameterized type into its base name and parameter string.
// For "texture_2d<f32>" returns ("texture_2d", "f32").
// For "texture_depth_2d" (no params) returns ("texture_depth_2d", "").
//
// Parameters:
//   - typeName: the WGSL type string to split
//
// Returns:
//   - base: the type name before the first angle bracket
//   - params: the content between the outermost angle brackets, or empty if none
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSpace(strings.TrimSuffix(after, ">"))
}

// splitAtTopLevelCommas splits a string at commas that are not nested inside angle brackets.
// This correctly handles WGSL types like binding_array<texture_2d<f32>, 4> where the inner
// brackets must stay attached to the element type.
//
// Parameters:
//   - s: the string to split
//
// Returns:
//   - []string: substrings between top-level commas
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// stripComments removes both single-line (//) and block (/* */) comments from WGSL source.
//
// Parameters:
//   - source: raw WGSL source string
//
// Returns:
//   - string: source with all comments removed
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes block comments, which WGSL allows to nest.
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
