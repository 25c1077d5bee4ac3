package bindgroup

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-forge/common"
	"github.com/Carmen-Shannon/oxy-forge/engine/layout"
	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var (
	// ErrUnsupportedStage is returned for stages WebGPU has no visibility flag for.
	ErrUnsupportedStage = errors.New("bindgroup: stage not supported by WebGPU")

	// ErrUnsupportedBinding is returned for resource kinds or types WebGPU cannot bind.
	ErrUnsupportedBinding = errors.New("bindgroup: binding not supported by WebGPU")

	// ErrDescriptorArray is returned for entries with a count above 1.
	ErrDescriptorArray = errors.New("bindgroup: descriptor arrays are not supported by WebGPU")
)

// Descriptors converts a resolved layout into WebGPU bind group layout descriptors, one per set.
// Entry visibility is the union of the entry's stages and entries are sorted by binding.
// The descriptors are plain values: no device object is created.
//
// Parameters:
//   - l: the resolved layout
//   - label: the label prefix; each descriptor is labelled "<label> group <set>"
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by set index
//   - error: ErrUnsupportedStage, ErrUnsupportedBinding or ErrDescriptorArray, wrapped with the offending location
func Descriptors(l layout.Layout, label string) (map[int]wgpu.BindGroupLayoutDescriptor, error) {
	result := make(map[int]wgpu.BindGroupLayoutDescriptor)
	for _, set := range l.Sets() {
		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(set.Entries))
		for _, e := range set.Entries {
			entry, err := classifyEntry(e)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: set %d, binding %d", label, e.Set, e.Binding)
			}
			entries = append(entries, entry)
		}
		slices.SortFunc(entries, func(a, b wgpu.BindGroupLayoutEntry) int {
			return int(a.Binding) - int(b.Binding)
		})
		result[int(set.Set)] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s group %d", label, set.Set),
			Entries: entries,
		}
	}
	return result, nil
}

// PoolDescriptors converts every pooled layout, labelling each with its pool key.
//
// Parameters:
//   - p: the layout pool
//
// Returns:
//   - map[layout.Key]map[int]wgpu.BindGroupLayoutDescriptor: descriptors per pool key and set index
//   - error: the first conversion error, in key order
func PoolDescriptors(p *layout.Pool) (map[layout.Key]map[int]wgpu.BindGroupLayoutDescriptor, error) {
	result := make(map[layout.Key]map[int]wgpu.BindGroupLayoutDescriptor, p.Len())
	for _, key := range common.SortedKeys(p.Layouts) {
		descs, err := Descriptors(p.Layouts[key], string(key))
		if err != nil {
			return nil, err
		}
		result[key] = descs
	}
	return result, nil
}

// Visibility converts a stage set into a WebGPU visibility mask.
//
// Parameters:
//   - stages: the stages that use a binding
//
// Returns:
//   - wgpu.ShaderStage: the OR of the stage flags
//   - error: ErrUnsupportedStage for any stage other than vertex, fragment and compute
func Visibility(stages []shader.Stage) (wgpu.ShaderStage, error) {
	visibility := wgpu.ShaderStageNone
	for _, s := range stages {
		flag, ok := shaderStageMap[s]
		if !ok {
			return wgpu.ShaderStageNone, errors.Wrapf(ErrUnsupportedStage, "%s", s)
		}
		visibility |= flag
	}
	return visibility, nil
}
