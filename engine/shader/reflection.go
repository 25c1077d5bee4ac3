package shader

import (
	"encoding/json"

	"github.com/Carmen-Shannon/oxy-forge/common"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Member is a single reflected resource declaration.
type Member struct {
	// Type is the declared type name, e.g. "sampler2D", "image2D" or a type table id such as "_12".
	Type string `json:"type"`
	// Name is the variable or block name. It is informational only and never participates in layout decisions.
	Name string `json:"name,omitempty"`
	// Set is the descriptor set (WGSL group) index.
	Set uint32 `json:"set"`
	// Binding is the binding index within the set.
	Binding uint32 `json:"binding"`
	// Location is the interface location for inputs and outputs.
	Location int `json:"location,omitempty"`
	// Array holds the array dimensions when the resource is an array.
	Array []uint32 `json:"array,omitempty"`
	// ArraySizeIsLiteral flags, per dimension, whether the size is a compile-time literal.
	ArraySizeIsLiteral []bool `json:"array_size_is_literal,omitempty"`
}

// EntryPoint is a reflected entry point together with the stage ("mode") it executes in.
type EntryPoint struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

// TypeAlias is an entry of the reflected type table. Only the name is kept.
type TypeAlias struct {
	Name string `json:"name"`
}

// Reflection is the structured resource-reflection record of one compiled shader.
// Resources holds an entry for every recognized resource key present in the source record,
// even when its member list is empty, so presence checks match the record exactly.
type Reflection struct {
	EntryPoints  []EntryPoint
	Types        map[string]TypeAlias
	Resources    map[ResourceKind][]Member
	Unrecognized []string
}

// NewReflection returns an empty reflection record ready for population.
//
// Returns:
//   - *Reflection: an empty record with initialized maps
func NewReflection() *Reflection {
	return &Reflection{
		Types:     make(map[string]TypeAlias),
		Resources: make(map[ResourceKind][]Member),
	}
}

// Add appends members under the given kind, marking the kind present.
//
// Parameters:
//   - kind: the binding or interface kind to add to
//   - members: the members to append
func (r *Reflection) Add(kind ResourceKind, members ...Member) {
	if r.Resources == nil {
		r.Resources = make(map[ResourceKind][]Member)
	}
	r.Resources[kind] = append(r.Resources[kind], members...)
}

// Has reports whether the record contains the given kind's key.
func (r *Reflection) Has(kind ResourceKind) bool {
	if r == nil {
		return false
	}
	if kind == KindEntryPoint {
		return len(r.EntryPoints) > 0
	}
	if kind == KindTypeAlias {
		return len(r.Types) > 0
	}
	_, ok := r.Resources[kind]
	return ok
}

// Members returns the members reported under kind, or nil.
func (r *Reflection) Members(kind ResourceKind) []Member {
	if r == nil {
		return nil
	}
	return r.Resources[kind]
}

// IsAlias reports whether typeName is a key of the reflected type table.
func (r *Reflection) IsAlias(typeName string) bool {
	if r == nil || r.Types == nil {
		return false
	}
	_, ok := r.Types[typeName]
	return ok
}

// DecodeReflection decodes a spirv-cross "--reflect" JSON document.
// Keys outside the recognized set are not an error here; they are kept in Unrecognized (sorted) so
// that validation can name them against the shader that produced them.
//
// Parameters:
//   - data: the raw JSON document
//
// Returns:
//   - *Reflection: the decoded record
//   - error: an error if the document is not a JSON object or a recognized key has the wrong shape
func DecodeReflection(data []byte) (*Reflection, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "shader: reflection is not a JSON object")
	}

	r := NewReflection()
	for _, key := range common.SortedKeys(raw) {
		kind, ok := ParseResourceKind(key)
		if !ok {
			r.Unrecognized = append(r.Unrecognized, key)
			continue
		}
		switch kind {
		case KindEntryPoint:
			if err := json.Unmarshal(raw[key], &r.EntryPoints); err != nil {
				return nil, errors.Wrapf(err, "shader: decoding %q", key)
			}
		case KindTypeAlias:
			if err := json.Unmarshal(raw[key], &r.Types); err != nil {
				return nil, errors.Wrapf(err, "shader: decoding %q", key)
			}
		case KindUniformBuffer, KindStorageBuffer, KindTexture, KindSeparateImage, KindSeparateSampler,
			KindStorageImage, KindSubpassInput, KindInput, KindOutput:
			var members []Member
			if err := json.Unmarshal(raw[key], &members); err != nil {
				return nil, errors.Wrapf(err, "shader: decoding %q", key)
			}
			r.Add(kind, members...)
		}
	}
	slices.Sort(r.Unrecognized)
	return r, nil
}
