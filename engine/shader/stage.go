package shader

import "strings"

// Stage identifies the pipeline stage a shader entry point executes in.
// Stages are ordered by their position in the pipeline so that sorted stage lists read naturally (vertex first).
type Stage int

const (
	// StageUnknown is the zero value and marks a stage that has not been declared or resolved yet.
	StageUnknown Stage = iota

	// StageVertex is the vertex processing stage.
	StageVertex

	// StageTessControl is the tessellation control stage.
	StageTessControl

	// StageTessEval is the tessellation evaluation stage.
	StageTessEval

	// StageGeometry is the geometry stage.
	StageGeometry

	// StageTask is the task (amplification) stage of a mesh pipeline.
	StageTask

	// StageMesh is the mesh stage of a mesh pipeline.
	StageMesh

	// StageFragment is the fragment processing stage.
	StageFragment

	// StageCompute is the compute stage.
	StageCompute

	// StageRayGen is the ray generation stage.
	StageRayGen

	// StageIntersection is the ray intersection stage.
	StageIntersection

	// StageAnyHit is the any-hit stage.
	StageAnyHit

	// StageClosestHit is the closest-hit stage.
	StageClosestHit

	// StageMiss is the miss stage.
	StageMiss

	// StageCallable is the callable stage.
	StageCallable

	// StageTaskNV is the NVIDIA task stage.
	StageTaskNV

	// StageMeshNV is the NVIDIA mesh stage.
	StageMeshNV

	stageCount
)

// stageInfo holds the reflector mode name and the Vulkan stage flag for a Stage.
type stageInfo struct {
	name       string
	vulkanFlag string
}

// stageTable is indexed by Stage. It is never written after initialization.
var stageTable = [stageCount]stageInfo{
	StageUnknown:      {"unknown", ""},
	StageVertex:       {"vert", "VK_SHADER_STAGE_VERTEX_BIT"},
	StageTessControl:  {"tesc", "VK_SHADER_STAGE_TESSELLATION_CONTROL_BIT"},
	StageTessEval:     {"tese", "VK_SHADER_STAGE_TESSELLATION_EVALUATION_BIT"},
	StageGeometry:     {"geom", "VK_SHADER_STAGE_GEOMETRY_BIT"},
	StageTask:         {"task", "VK_SHADER_STAGE_TASK_BIT_EXT"},
	StageMesh:         {"mesh", "VK_SHADER_STAGE_MESH_BIT_EXT"},
	StageFragment:     {"frag", "VK_SHADER_STAGE_FRAGMENT_BIT"},
	StageCompute:      {"comp", "VK_SHADER_STAGE_COMPUTE_BIT"},
	StageRayGen:       {"rgen", "VK_SHADER_STAGE_RAYGEN_BIT_KHR"},
	StageIntersection: {"rint", "VK_SHADER_STAGE_INTERSECTION_BIT_KHR"},
	StageAnyHit:       {"rahit", "VK_SHADER_STAGE_ANY_HIT_BIT_KHR"},
	StageClosestHit:   {"rchit", "VK_SHADER_STAGE_CLOSEST_HIT_BIT_KHR"},
	StageMiss:         {"rmiss", "VK_SHADER_STAGE_MISS_BIT_KHR"},
	StageCallable:     {"rcall", "VK_SHADER_STAGE_CALLABLE_BIT_KHR"},
	StageTaskNV:       {"task_nv", "VK_SHADER_STAGE_TASK_BIT_NV"},
	StageMeshNV:       {"mesh_nv", "VK_SHADER_STAGE_MESH_BIT_NV"},
}

// stageAliases accepts the long-form names a config author is likely to write.
var stageAliases = map[string]Stage{
	"vertex":                  StageVertex,
	"fragment":                StageFragment,
	"compute":                 StageCompute,
	"geometry":                StageGeometry,
	"tessellation_control":    StageTessControl,
	"tessellation_evaluation": StageTessEval,
	"raygen":                  StageRayGen,
	"intersection":            StageIntersection,
	"anyhit":                  StageAnyHit,
	"closesthit":              StageClosestHit,
	"miss":                    StageMiss,
	"callable":                StageCallable,
}

// String returns the short reflector name of the stage (e.g. "vert", "frag").
func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return "unknown"
	}
	return stageTable[s].name
}

// VulkanFlag returns the VkShaderStageFlagBits name for the stage, or an empty string for StageUnknown.
func (s Stage) VulkanFlag() string {
	if s < 0 || s >= stageCount {
		return ""
	}
	return stageTable[s].vulkanFlag
}

// Valid reports whether s is a concrete, known stage.
func (s Stage) Valid() bool {
	return s > StageUnknown && s < stageCount
}

// ParseStage parses a stage name as reported by a reflector entry point "mode" or as written in configuration.
// Both short names ("vert") and long names ("vertex") are accepted, case-insensitively.
//
// Parameters:
//   - name: the stage name to parse
//
// Returns:
//   - Stage: the parsed stage, or StageUnknown if not recognized
//   - bool: true if the name was recognized
func ParseStage(name string) (Stage, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for s := StageVertex; s < stageCount; s++ {
		if stageTable[s].name == n {
			return s, true
		}
	}
	if s, ok := stageAliases[n]; ok {
		return s, true
	}
	return StageUnknown, false
}

// StageFromExtension maps a GLSL source file extension (".vert", ".frag", ...) to its stage.
//
// Parameters:
//   - ext: the file extension including the leading dot
//
// Returns:
//   - Stage: the stage named by the extension
//   - bool: true if the extension names a stage
func StageFromExtension(ext string) (Stage, bool) {
	name, ok := strings.CutPrefix(strings.ToLower(ext), ".")
	if !ok {
		return StageUnknown, false
	}
	for s := StageVertex; s < stageCount; s++ {
		if stageTable[s].name == name {
			return s, true
		}
	}
	return StageUnknown, false
}
