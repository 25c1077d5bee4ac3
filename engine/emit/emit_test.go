package emit

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/oxy-forge/engine/layout"
	"github.com/Carmen-Shannon/oxy-forge/engine/shader"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testPool() *layout.Pool {
	lit := layout.Layout{Entries: []layout.Entry{
		{Set: 0, Binding: 0, Kind: shader.KindUniformBuffer, Type: "ubo", Count: 1, Stages: []shader.Stage{shader.StageVertex, shader.StageFragment}},
		{Set: 1, Binding: 0, Kind: shader.KindTexture, Type: "sampler2D", Count: 4, Stages: []shader.Stage{shader.StageFragment}},
	}}
	cull := layout.Layout{Entries: []layout.Entry{
		{Set: 0, Binding: 0, Kind: shader.KindStorageBuffer, Type: "ssbo", Count: 1, Stages: []shader.Stage{shader.StageCompute}},
	}}
	return layout.Deduplicate(map[string]layout.Layout{
		"lit":       lit,
		"lit_alpha": lit,
		"cull":      cull,
	})
}

func TestNewDocument(t *testing.T) {
	pool := testPool()
	doc := NewDocument(pool)

	assert.Len(t, doc.LayoutPool, 2)
	assert.Equal(t, doc.References["lit"], doc.References["lit_alpha"])

	entries := doc.LayoutPool[doc.References["lit"]]
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{
		Set:        0,
		Binding:    0,
		Kind:       "ubo",
		Type:       "ubo",
		Count:      1,
		Stages:     []string{"vert", "frag"},
		Descriptor: "VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER",
		StageFlags: []string{"VK_SHADER_STAGE_VERTEX_BIT", "VK_SHADER_STAGE_FRAGMENT_BIT"},
	}, entries[0])
	assert.Equal(t, "VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER", entries[1].Descriptor)
	assert.Equal(t, uint32(4), entries[1].Count)
}

func TestNewDocument_SetsAndPoolSizes(t *testing.T) {
	l := layout.Layout{Entries: []layout.Entry{
		{Set: 0, Binding: 0, Kind: shader.KindUniformBuffer, Type: "camera", Count: 1, Stages: []shader.Stage{shader.StageVertex}},
		{Set: 0, Binding: 1, Kind: shader.KindTexture, Type: "sampler2D", Count: 2, Stages: []shader.Stage{shader.StageFragment}},
		{Set: 1, Binding: 0, Kind: shader.KindUniformBuffer, Type: "material", Count: 1, Stages: []shader.Stage{shader.StageFragment}},
		{Set: 1, Binding: 1, Kind: shader.KindTexture, Type: "sampler2D", Count: 4, Stages: []shader.Stage{shader.StageFragment}},
		{Set: 3, Binding: 0, Kind: shader.KindStorageBuffer, Type: "lights", Count: 1, Stages: []shader.Stage{shader.StageFragment}},
	}}
	doc := NewDocument(layout.Deduplicate(map[string]layout.Layout{"forward": l}))
	key := doc.References["forward"]

	sets := doc.Sets[key]
	require.Len(t, sets, 3)
	assert.Equal(t, []uint32{0, 1, 3}, []uint32{sets[0].Set, sets[1].Set, sets[2].Set})
	assert.Len(t, sets[0].Entries, 2)
	assert.Len(t, sets[1].Entries, 2)
	require.Len(t, sets[2].Entries, 1)
	assert.Equal(t, "lights", sets[2].Entries[0].Type)
	assert.Equal(t, doc.LayoutPool[key][2], sets[1].Entries[0])

	assert.Equal(t, []PoolSize{
		{Descriptor: "VK_DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER", Count: 6},
		{Descriptor: "VK_DESCRIPTOR_TYPE_STORAGE_BUFFER", Count: 1},
		{Descriptor: "VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER", Count: 2},
	}, doc.PoolSizes[key])
}

func TestNewDocument_EveryKeyHasSetsAndPoolSizes(t *testing.T) {
	doc := NewDocument(testPool())
	for key, entries := range doc.LayoutPool {
		var flattened []Entry
		for _, s := range doc.Sets[key] {
			flattened = append(flattened, s.Entries...)
		}
		assert.Equal(t, entries, flattened, key)

		var total, want uint32
		for _, size := range doc.PoolSizes[key] {
			total += size.Count
		}
		for _, e := range entries {
			want += e.Count
		}
		assert.Equal(t, want, total, key)
	}
	assert.Len(t, doc.Sets, 2)
	assert.Len(t, doc.PoolSizes, 2)
}

func TestWrite_Deterministic(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var first bytes.Buffer
			require.NoError(t, Write(&first, NewDocument(testPool()), format))
			for i := 0; i < 10; i++ {
				var again bytes.Buffer
				require.NoError(t, Write(&again, NewDocument(testPool()), format))
				assert.Equal(t, first.String(), again.String())
			}
		})
	}
}

func TestWriteJSON_Shape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewDocument(testPool())))

	out := buf.String()
	assert.Contains(t, out, `"layout_pool": {`)
	assert.Contains(t, out, `"references": {`)
	assert.Contains(t, out, `"stage_flags": [`)
	assert.Contains(t, out, `"sets": {`)
	assert.Contains(t, out, `"entries": [`)
	assert.Contains(t, out, `"pool_sizes": {`)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(`"cull"`)), bytes.Index(buf.Bytes(), []byte(`"lit"`)))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	doc := NewDocument(testPool())

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, doc))

	var decoded Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, doc, decoded)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Document{}, "toml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
