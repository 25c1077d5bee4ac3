package layout

import (
	"fmt"
	"strconv"

	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
	"golang.org/x/exp/slices"
)

// location is a set and binding pair.
type location struct {
	set     uint32
	binding uint32
}

// ValidateShader checks one shader's bindings for internal consistency.
// A recognized but unsupported subpass input category only produces a warning. Unrecognized
// reflection categories and any two resources sharing a set and binding are errors; every
// offending location is reported once, in binding order.
//
// Parameters:
//   - s: the shader whose reflection record is checked
//   - bindings: the bindings extracted from s
//
// Returns:
//   - []Warning: a WarnUnsupportedResource warning when subpass inputs are present
//   - error: Errors holding ErrUnrecognizedResourceKind and ErrDuplicateBindingInShader entries, or nil
func ValidateShader(s shader.Shader, bindings []Binding) ([]Warning, error) {
	refl := s.Reflection()

	var warnings []Warning
	if refl.Has(shader.KindSubpassInput) {
		warnings = append(warnings, Warning{
			Kind:    WarnUnsupportedResource,
			Shader:  s.Key(),
			Message: fmt.Sprintf("%s are not supported and produce no bindings", shader.KindSubpassInput.ReflectKey()),
		})
	}

	var errs Errors
	if refl != nil && len(refl.Unrecognized) > 0 {
		keys := slices.Clone(refl.Unrecognized)
		slices.Sort(keys)
		errs = append(errs, &Error{
			Kind:    ErrUnrecognizedResourceKind,
			Shaders: []string{s.Key()},
			Keys:    keys,
		})
	}

	seen := make(map[location]int, len(bindings))
	for _, b := range bindings {
		loc := location{b.Set, b.Binding}
		seen[loc]++
		if seen[loc] == 2 {
			errs = append(errs, &Error{
				Kind:    ErrDuplicateBindingInShader,
				Shaders: []string{s.Key()},
				Set:     b.Set,
				Binding: b.Binding,
			})
		}
	}

	return warnings, errs.asError()
}

// ValidateGroup checks that the combined bindings of one pipeline agree at every shared set and binding.
// Every pair of bindings at one location is compared: the same stage is a duplicate stage,
// otherwise a differing kind or type is a type mismatch, otherwise a differing count is a count mismatch.
// All conflicts are reported, pairs in input order.
//
// Parameters:
//   - pipeline: the pipeline name used in error messages
//   - bindings: the bindings of every shader in the pipeline
//
// Returns:
//   - error: Errors holding every conflict, or nil
func ValidateGroup(pipeline string, bindings []Binding) error {
	var errs Errors
	for i := range bindings {
		for j := i + 1; j < len(bindings); j++ {
			a, b := bindings[i], bindings[j]
			if a.Set != b.Set || a.Binding != b.Binding {
				continue
			}
			if err := compareBindings(pipeline, a, b); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs.asError()
}

// compareBindings classifies the conflict between two bindings at the same location, if any.
func compareBindings(pipeline string, a, b Binding) *Error {
	e := &Error{
		Pipeline: pipeline,
		Shaders:  []string{a.Shader, b.Shader},
		Set:      a.Set,
		Binding:  a.Binding,
	}
	switch {
	case a.Stage == b.Stage:
		e.Kind = ErrDuplicateStageAtLocation
		e.Values = []string{a.Stage.String(), b.Stage.String()}
	case a.Kind != b.Kind:
		e.Kind = ErrTypeMismatchAtLocation
		e.Values = []string{a.Kind.String(), b.Kind.String()}
	case a.Type != b.Type:
		e.Kind = ErrTypeMismatchAtLocation
		e.Values = []string{a.Type, b.Type}
	case a.Count != b.Count:
		e.Kind = ErrCountMismatchAtLocation
		e.Values = []string{strconv.FormatUint(uint64(a.Count), 10), strconv.FormatUint(uint64(b.Count), 10)}
	default:
		return nil
	}
	return e
}
