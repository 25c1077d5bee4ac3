package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
)

// Binding is one resource declaration of one shader at a set and binding.
// Type is the declared type name, or the kind's canonical name when the declared type is a reflected alias.
type Binding struct {
	Shader  string
	Stage   shader.Stage
	Set     uint32
	Binding uint32
	Kind    shader.ResourceKind
	Type    string
	Count   uint32
}

// ArrayPolicy decides how array bindings with an unresolvable size are treated.
type ArrayPolicy uint8

const (
	// ArrayPolicyWarn takes unresolved array sizes as 1 and reports a warning.
	ArrayPolicyWarn ArrayPolicy = iota

	// ArrayPolicyStrict rejects unresolved array sizes.
	ArrayPolicyStrict
)

// String returns the configuration name of the policy.
func (p ArrayPolicy) String() string {
	switch p {
	case ArrayPolicyWarn:
		return "warn"
	case ArrayPolicyStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseArrayPolicy parses a configuration name into an ArrayPolicy. An empty name is ArrayPolicyWarn.
//
// Parameters:
//   - name: "warn", "strict" or empty
//
// Returns:
//   - ArrayPolicy: the parsed policy
//   - error: an error if the name is not a known policy
func ParseArrayPolicy(name string) (ArrayPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "warn":
		return ArrayPolicyWarn, nil
	case "strict":
		return ArrayPolicyStrict, nil
	}
	return ArrayPolicyWarn, fmt.Errorf("layout: unknown array policy %q", name)
}

// Extract flattens a shader's reflection record into bindings.
// Binding kinds are visited in a fixed order (uniform buffers, storage buffers, textures,
// separate images, separate samplers, storage images) and members in reflection order.
// Subpass inputs are never extracted.
//
// Parameters:
//   - s: the shader to extract from
//   - policy: how unresolved array sizes are treated
//
// Returns:
//   - []Binding: the extracted bindings
//   - []Warning: unresolved array sizes under ArrayPolicyWarn
//   - error: an *Error of kind ErrUnresolvedArraySize under ArrayPolicyStrict
func Extract(s shader.Shader, policy ArrayPolicy) ([]Binding, []Warning, error) {
	refl := s.Reflection()

	var (
		bindings []Binding
		warnings []Warning
	)
	for _, kind := range shader.BindingKinds() {
		for _, m := range refl.Members(kind) {
			count, resolved := arraySize(m)
			if !resolved {
				if policy == ArrayPolicyStrict {
					return nil, nil, &Error{
						Kind:    ErrUnresolvedArraySize,
						Shaders: []string{s.Key()},
						Set:     m.Set,
						Binding: m.Binding,
					}
				}
				warnings = append(warnings, Warning{
					Kind:    WarnUnresolvedArraySize,
					Shader:  s.Key(),
					Message: fmt.Sprintf("array size at set %d, binding %d is not a compile-time literal, using 1", m.Set, m.Binding),
				})
			}

			typ := m.Type
			if refl.IsAlias(typ) {
				typ = kind.String()
			}
			bindings = append(bindings, Binding{
				Shader:  s.Key(),
				Stage:   s.Stage(),
				Set:     m.Set,
				Binding: m.Binding,
				Kind:    kind,
				Type:    typ,
				Count:   count,
			})
		}
	}
	return bindings, warnings, nil
}

// arraySize resolves the descriptor count of a member.
// Non-array members have a count of 1. Arrays count the sum of their dimensions when every
// dimension is a literal. Any other array, including a runtime-sized one whose literal sum is 0
// or one whose sum does not fit in a uint32, is unresolved and counts as 1.
func arraySize(m shader.Member) (count uint32, resolved bool) {
	if len(m.Array) == 0 && len(m.ArraySizeIsLiteral) == 0 {
		return 1, true
	}
	if len(m.Array) == 0 || len(m.Array) != len(m.ArraySizeIsLiteral) {
		return 1, false
	}
	var sum uint64
	for i, dim := range m.Array {
		if !m.ArraySizeIsLiteral[i] {
			return 1, false
		}
		sum += uint64(dim)
	}
	if sum == 0 || sum > math.MaxUint32 {
		return 1, false
	}
	return uint32(sum), true
}
