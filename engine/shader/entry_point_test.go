package shader

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEntryPoint(t *testing.T) {
	multi := &Reflection{EntryPoints: []EntryPoint{
		{Name: "vs_main", Mode: "vert"},
		{Name: "fs_main", Mode: "frag"},
	}}

	tests := []struct {
		name     string
		r        *Reflection
		entry    string
		declared Stage
		want     EntryPoint
		wantErr  error
	}{
		{name: "first by default", r: multi, want: EntryPoint{Name: "vs_main", Mode: "vert"}},
		{name: "by name", r: multi, entry: "fs_main", want: EntryPoint{Name: "fs_main", Mode: "frag"}},
		{name: "by declared stage", r: multi, declared: StageFragment, want: EntryPoint{Name: "fs_main", Mode: "frag"}},
		{name: "name and matching stage", r: multi, entry: "vs_main", declared: StageVertex, want: EntryPoint{Name: "vs_main", Mode: "vert"}},
		{name: "missing name", r: multi, entry: "main", wantErr: ErrEntryPointNotFound},
		{name: "name with wrong stage", r: multi, entry: "vs_main", declared: StageFragment, wantErr: ErrStageMismatch},
		{name: "no entry for stage", r: multi, declared: StageCompute, wantErr: ErrStageMismatch},
		{name: "empty record", r: NewReflection(), wantErr: ErrNoEntryPoint},
		{name: "nil record", r: nil, wantErr: ErrNoEntryPoint},
		{name: "empty record with declared stage", r: NewReflection(), declared: StageCompute, want: EntryPoint{Name: "main", Mode: "comp"}},
		{name: "missing mode", r: &Reflection{EntryPoints: []EntryPoint{{Name: "main"}}}, wantErr: ErrUnknownStage},
		{name: "unknown mode", r: &Reflection{EntryPoints: []EntryPoint{{Name: "main", Mode: "pixel"}}}, wantErr: ErrUnknownStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveEntryPoint(tt.r, tt.entry, tt.declared)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
