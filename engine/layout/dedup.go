package layout

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-forge/common"
	"github.com/cespare/xxhash/v2"
)

// Key is the content-derived identifier of a pooled layout: the xxHash64 of the layout's
// canonical serialization as 16 lowercase hex digits. Should two different layouts ever hash
// alike, the later one receives a "-1", "-2", ... suffix.
type Key string

// Pool is the deduplicated set of layouts and the pipeline reference table.
// Pipelines with structurally identical layouts reference the same key.
type Pool struct {
	Layouts    map[Key]Layout
	References map[string]Key
}

// Deduplicate pools structurally identical layouts under one content key.
// Pipeline names never contribute to a key. Pipelines are visited in name order, which only
// matters for the suffix assignment of colliding keys.
//
// Parameters:
//   - layouts: the merged layout of each pipeline, keyed by pipeline name
//
// Returns:
//   - *Pool: the layout pool and reference table
func Deduplicate(layouts map[string]Layout) *Pool {
	pool := &Pool{
		Layouts:    make(map[Key]Layout),
		References: make(map[string]Key, len(layouts)),
	}

	for _, name := range common.SortedKeys(layouts) {
		l := layouts[name]
		base := ContentKey(l)
		key := base
		for i := 1; ; i++ {
			existing, ok := pool.Layouts[key]
			if !ok {
				pool.Layouts[key] = l
				break
			}
			if existing.Equal(l) {
				break
			}
			key = Key(fmt.Sprintf("%s-%d", base, i))
		}
		pool.References[name] = key
	}
	return pool
}

// ContentKey hashes a layout's canonical serialization.
//
// Parameters:
//   - l: the layout to hash
//
// Returns:
//   - Key: 16 lowercase hex digits of the xxHash64 digest
func ContentKey(l Layout) Key {
	return Key(fmt.Sprintf("%016x", xxhash.Sum64String(l.canonical())))
}

// Keys returns the pooled layout keys in sorted order.
func (p *Pool) Keys() []Key {
	return common.SortedKeys(p.Layouts)
}

// Pipelines returns the referencing pipeline names in sorted order.
func (p *Pool) Pipelines() []string {
	return common.SortedKeys(p.References)
}

// Layout returns the pooled layout a pipeline references.
//
// Parameters:
//   - pipeline: the pipeline name
//
// Returns:
//   - Layout: the referenced layout
//   - bool: false if the pipeline is not in the reference table
func (p *Pool) Layout(pipeline string) (Layout, bool) {
	key, ok := p.References[pipeline]
	if !ok {
		return Layout{}, false
	}
	l, ok := p.Layouts[key]
	return l, ok
}

// Len returns the number of distinct pooled layouts.
func (p *Pool) Len() int {
	return len(p.Layouts)
}
