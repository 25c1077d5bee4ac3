package shader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// entryPointRegex matches @vertex, @fragment and @compute functions and captures the stage attribute and name.
	// The lazy match cannot cross an opening brace, so each attribute pairs with its own function.
	entryPointRegex = regexp.MustCompile(`(?s)@(vertex|fragment|compute)\b[^{]*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> camera: CameraUniform;
	// or handle types: @group(2) @binding(0) var diffuseTexture: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// wgslStageModes maps WGSL entry point attributes to reflector mode names.
var wgslStageModes = map[string]string{
	"vertex":   StageVertex.String(),
	"fragment": StageFragment.String(),
	"compute":  StageCompute.String(),
}

// ReflectWGSL derives a reflection record directly from WGSL source, without a SPIR-V round trip.
// Every `@group(N) @binding(M) var` declaration becomes a member of the matching binding kind,
// `binding_array<T, N>` declarations carry their array size, each struct declared in the module
// is entered into the type table so buffer types canonicalize the same way spirv-cross block ids do,
// and every @vertex, @fragment and @compute function is reported as an entry point.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - *Reflection: the derived reflection record
//   - error: an error if a declaration cannot be classified into a binding kind
func ReflectWGSL(source string) (*Reflection, error) {
	cleaned := stripComments(source)
	r := NewReflection()

	for _, name := range parseStructNames(cleaned) {
		r.Types[name] = TypeAlias{Name: name}
	}

	for _, match := range entryPointRegex.FindAllStringSubmatch(cleaned, -1) {
		r.EntryPoints = append(r.EntryPoints, EntryPoint{
			Name: match[2],
			Mode: wgslStageModes[match[1]],
		})
	}

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, err := strconv.ParseUint(match[1], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "shader: invalid @group index %q", match[1])
		}
		binding, err := strconv.ParseUint(match[2], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "shader: invalid @binding index %q", match[2])
		}
		addressSpace := strings.TrimSpace(match[3])
		varName := strings.TrimSpace(match[4])
		typeName := normalizeWGSLType(match[5])

		member := Member{
			Name:    varName,
			Set:     uint32(group),
			Binding: uint32(binding),
		}
		member.Type, member.Array, member.ArraySizeIsLiteral = unwrapBindingArray(typeName)

		kind, ok := classifyWGSLResource(addressSpace, member.Type)
		if !ok {
			return nil, errors.Errorf("shader: cannot classify %s: var<%s> of type %s", varName, addressSpace, typeName)
		}
		r.Add(kind, member)
	}

	return r, nil
}

// parseStructNames returns the names of all struct blocks in the cleaned WGSL source,
// in declaration order.
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []string: the struct names
func parseStructNames(source string) []string {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, match[1])
	}
	return names
}
