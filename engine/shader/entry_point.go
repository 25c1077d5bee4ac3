package shader

import "github.com/pkg/errors"

var (
	// ErrNoEntryPoint is returned when a reflection record reports no entry points and no stage was declared.
	ErrNoEntryPoint = errors.New("shader: no entry point")

	// ErrEntryPointNotFound is returned when the requested entry point is not in the reflection record.
	ErrEntryPointNotFound = errors.New("shader: entry point not found")

	// ErrUnknownStage is returned when an entry point's mode does not name a known stage.
	ErrUnknownStage = errors.New("shader: unknown stage")

	// ErrStageMismatch is returned when the declared stage disagrees with the reflected one.
	ErrStageMismatch = errors.New("shader: declared stage does not match entry point")
)

// Stage parses the entry point's mode.
//
// Returns:
//   - Stage: the stage the entry point executes in
//   - bool: false if the mode is empty or unknown
func (e EntryPoint) Stage() (Stage, bool) {
	return ParseStage(e.Mode)
}

// ResolveEntryPoint selects the entry point a shader is built from.
// A named entry point must exist. Without a name, the first entry point is used, or the first
// one whose stage matches declared when a stage is declared. When the record has no entry points
// at all but a stage is declared, a "main" entry point for that stage is assumed, matching how
// glslang names GLSL entry points.
//
// Parameters:
//   - r: the shader's reflection record
//   - name: the requested entry point name, or empty for the default
//   - declared: the stage declared in configuration, or StageUnknown
//
// Returns:
//   - EntryPoint: the selected entry point, with a mode naming a valid stage
//   - error: ErrNoEntryPoint, ErrEntryPointNotFound, ErrUnknownStage or ErrStageMismatch, wrapped with context
func ResolveEntryPoint(r *Reflection, name string, declared Stage) (EntryPoint, error) {
	var entries []EntryPoint
	if r != nil {
		entries = r.EntryPoints
	}

	if len(entries) == 0 {
		if !declared.Valid() {
			return EntryPoint{}, ErrNoEntryPoint
		}
		if name == "" {
			name = "main"
		}
		return EntryPoint{Name: name, Mode: declared.String()}, nil
	}

	var selected *EntryPoint
	for i := range entries {
		ep := &entries[i]
		if name != "" && ep.Name != name {
			continue
		}
		if declared.Valid() && name == "" {
			if s, ok := ep.Stage(); !ok || s != declared {
				continue
			}
		}
		selected = ep
		break
	}

	if selected == nil {
		if name != "" {
			return EntryPoint{}, errors.Wrapf(ErrEntryPointNotFound, "%q", name)
		}
		return EntryPoint{}, errors.Wrapf(ErrStageMismatch, "no %s entry point", declared)
	}

	stage, ok := selected.Stage()
	if !ok {
		return EntryPoint{}, errors.Wrapf(ErrUnknownStage, "entry point %q has mode %q", selected.Name, selected.Mode)
	}
	if declared.Valid() && stage != declared {
		return EntryPoint{}, errors.Wrapf(ErrStageMismatch, "entry point %q is %s, declared %s", selected.Name, stage, declared)
	}
	return *selected, nil
}
