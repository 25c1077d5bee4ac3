package layout

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
	"golang.org/x/exp/slices"
)

// Entry is one merged binding of a layout: a location, its resource and every stage that uses it.
// Stages are sorted ascending and contain no duplicates.
type Entry struct {
	Set     uint32
	Binding uint32
	Kind    shader.ResourceKind
	Type    string
	Count   uint32
	Stages  []shader.Stage
}

// SetLayout is the slice of a layout's entries that share one set index.
type SetLayout struct {
	Set     uint32
	Entries []Entry
}

// Layout is the full, canonically ordered set of entries one pipeline binds.
type Layout struct {
	Entries []Entry
}

// entryKey identifies the entry a binding merges into.
type entryKey struct {
	set     uint32
	binding uint32
	kind    shader.ResourceKind
	typ     string
	count   uint32
}

// Merge collapses a pipeline's bindings into canonical entries, unioning the stages of bindings
// that share set, binding, kind, type and count. Merging is idempotent: adding a stage that an
// entry already has changes nothing.
//
// Parameters:
//   - bindings: the validated bindings of every shader in one pipeline
//
// Returns:
//   - Layout: the entries sorted by set, binding, type, count and kind
func Merge(bindings []Binding) Layout {
	index := make(map[entryKey]int, len(bindings))
	entries := make([]Entry, 0, len(bindings))

	for _, b := range bindings {
		key := entryKey{b.Set, b.Binding, b.Kind, b.Type, b.Count}
		i, ok := index[key]
		if !ok {
			i = len(entries)
			index[key] = i
			entries = append(entries, Entry{
				Set:     b.Set,
				Binding: b.Binding,
				Kind:    b.Kind,
				Type:    b.Type,
				Count:   b.Count,
			})
		}
		if !slices.Contains(entries[i].Stages, b.Stage) {
			entries[i].Stages = append(entries[i].Stages, b.Stage)
		}
	}

	for i := range entries {
		slices.Sort(entries[i].Stages)
	}
	slices.SortFunc(entries, compareEntries)
	return Layout{Entries: entries}
}

// compareEntries orders entries by set, binding, type, count and kind.
func compareEntries(a, b Entry) int {
	if c := cmp.Compare(a.Set, b.Set); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Binding, b.Binding); c != 0 {
		return c
	}
	if c := strings.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Count, b.Count); c != 0 {
		return c
	}
	return cmp.Compare(a.Kind, b.Kind)
}

// Sets partitions the layout's entries by set index, in ascending set order.
//
// Returns:
//   - []SetLayout: one element per set index that has entries
func (l Layout) Sets() []SetLayout {
	var sets []SetLayout
	for _, e := range l.Entries {
		if n := len(sets); n > 0 && sets[n-1].Set == e.Set {
			sets[n-1].Entries = append(sets[n-1].Entries, e)
			continue
		}
		sets = append(sets, SetLayout{Set: e.Set, Entries: []Entry{e}})
	}
	return sets
}

// Len returns the number of entries in the layout.
func (l Layout) Len() int {
	return len(l.Entries)
}

// Equal reports whether two layouts are structurally identical: the same entries in the same
// canonical order with the same stage sets.
func (l Layout) Equal(o Layout) bool {
	return slices.EqualFunc(l.Entries, o.Entries, func(a, b Entry) bool {
		return a.Set == b.Set &&
			a.Binding == b.Binding &&
			a.Kind == b.Kind &&
			a.Type == b.Type &&
			a.Count == b.Count &&
			slices.Equal(a.Stages, b.Stages)
	})
}

// canonical serializes the layout for hashing, one entry per line as
// set|binding|kind|type|count|stages with stages comma-separated.
func (l Layout) canonical() string {
	var sb strings.Builder
	for _, e := range l.Entries {
		stages := make([]string, len(e.Stages))
		for i, s := range e.Stages {
			stages[i] = s.String()
		}
		fmt.Fprintf(&sb, "%d|%d|%s|%s|%d|%s\n", e.Set, e.Binding, e.Kind, e.Type, e.Count, strings.Join(stages, ","))
	}
	return sb.String()
}
