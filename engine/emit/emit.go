package emit

import (
	"encoding/json"
	"io"

	"github.com/Carmen-Shannon/oxy-forge/common"
	"github.com/Carmen-Shannon/oxy-forge/engine/layout"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by Write for formats other than "json" and "yaml".
var ErrUnknownFormat = errors.New("emit: unknown format")

// Document is the serialized form of a resolution: the layout pool, the pipeline reference table,
// and per pooled layout its entries grouped by set and its descriptor pool sizes.
// All are maps; encoding/json and yaml.v3 write map keys in sorted order, so equal documents
// encode to identical bytes.
type Document struct {
	LayoutPool map[string][]Entry    `json:"layout_pool" yaml:"layout_pool"`
	Sets       map[string][]Set      `json:"sets" yaml:"sets"`
	PoolSizes  map[string][]PoolSize `json:"pool_sizes" yaml:"pool_sizes"`
	References map[string]string     `json:"references" yaml:"references"`
}

// Set is the entries of one descriptor set of a pooled layout.
type Set struct {
	Set     uint32  `json:"set" yaml:"set"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// PoolSize is the number of descriptors of one Vulkan descriptor type a pooled layout needs.
type PoolSize struct {
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	Count      uint32 `json:"count" yaml:"count"`
}

// Entry is one binding entry of a pooled layout.
type Entry struct {
	Set        uint32   `json:"set" yaml:"set"`
	Binding    uint32   `json:"binding" yaml:"binding"`
	Kind       string   `json:"kind" yaml:"kind"`
	Type       string   `json:"type" yaml:"type"`
	Count      uint32   `json:"count" yaml:"count"`
	Stages     []string `json:"stages" yaml:"stages"`
	Descriptor string   `json:"descriptor" yaml:"descriptor"`
	StageFlags []string `json:"stage_flags" yaml:"stage_flags"`
}

// NewDocument renders a layout pool into a Document.
//
// Parameters:
//   - pool: the deduplicated layout pool
//
// Returns:
//   - Document: the document, with entries in canonical layout order, sets ascending and
//     pool sizes sorted by descriptor type
func NewDocument(pool *layout.Pool) Document {
	doc := Document{
		LayoutPool: make(map[string][]Entry, pool.Len()),
		Sets:       make(map[string][]Set, pool.Len()),
		PoolSizes:  make(map[string][]PoolSize, pool.Len()),
		References: make(map[string]string, len(pool.References)),
	}
	for _, key := range pool.Keys() {
		l := pool.Layouts[key]
		entries := make([]Entry, 0, l.Len())
		for _, e := range l.Entries {
			entries = append(entries, newEntry(e))
		}
		doc.LayoutPool[string(key)] = entries
		doc.Sets[string(key)] = newSets(l)
		doc.PoolSizes[string(key)] = newPoolSizes(l)
	}
	for _, name := range pool.Pipelines() {
		doc.References[name] = string(pool.References[name])
	}
	return doc
}

func newEntry(e layout.Entry) Entry {
	out := Entry{
		Set:        e.Set,
		Binding:    e.Binding,
		Kind:       e.Kind.String(),
		Type:       e.Type,
		Count:      e.Count,
		Descriptor: e.Kind.DescriptorType(),
		Stages:     make([]string, len(e.Stages)),
		StageFlags: make([]string, len(e.Stages)),
	}
	for i, s := range e.Stages {
		out.Stages[i] = s.String()
		out.StageFlags[i] = s.VulkanFlag()
	}
	return out
}

func newSets(l layout.Layout) []Set {
	sets := l.Sets()
	out := make([]Set, 0, len(sets))
	for _, s := range sets {
		entries := make([]Entry, 0, len(s.Entries))
		for _, e := range s.Entries {
			entries = append(entries, newEntry(e))
		}
		out = append(out, Set{Set: s.Set, Entries: entries})
	}
	return out
}

// newPoolSizes sums entry counts per descriptor type.
func newPoolSizes(l layout.Layout) []PoolSize {
	counts := make(map[string]uint32)
	for _, e := range l.Entries {
		counts[e.Kind.DescriptorType()] += e.Count
	}
	out := make([]PoolSize, 0, len(counts))
	for _, descriptor := range common.SortedKeys(counts) {
		out = append(out, PoolSize{Descriptor: descriptor, Count: counts[descriptor]})
	}
	return out
}

// WriteJSON writes the document as indented JSON followed by a newline.
//
// Parameters:
//   - w: the destination
//   - doc: the document to write
//
// Returns:
//   - error: an error if encoding or writing fails
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "emit: writing json")
}

// WriteYAML writes the document as YAML with two-space indentation.
//
// Parameters:
//   - w: the destination
//   - doc: the document to write
//
// Returns:
//   - error: an error if encoding or writing fails
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "emit: writing yaml")
	}
	return errors.Wrap(enc.Close(), "emit: writing yaml")
}

// Write writes the document in the named format. An empty format is JSON.
//
// Parameters:
//   - w: the destination
//   - doc: the document to write
//   - format: "json", "yaml" or empty
//
// Returns:
//   - error: ErrUnknownFormat, or an encoding error
func Write(w io.Writer, doc Document, format string) error {
	switch format {
	case "", "json":
		return WriteJSON(w, doc)
	case "yaml":
		return WriteYAML(w, doc)
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", format)
}
