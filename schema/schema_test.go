package schema_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/schema"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  schema.Schema
		wantErr error
	}{
		{
			name:    "default schema is valid",
			schema:  schema.Default(),
			wantErr: nil,
		},
		{
			name:    "empty schema",
			schema:  schema.Schema{},
			wantErr: schema.ErrNoFeatures,
		},
		{
			name: "duplicate feature name",
			schema: schema.Schema{Features: []schema.Feature{
				{Name: "label", Kind: schema.KindLabel},
				{Name: "ad_id", Kind: schema.KindCategorical},
				{Name: "ad_id", Kind: schema.KindNumeric},
			}},
			wantErr: schema.ErrDuplicateName,
		},
		{
			name: "missing label",
			schema: schema.Schema{Features: []schema.Feature{
				{Name: "ad_id", Kind: schema.KindCategorical},
			}},
			wantErr: schema.ErrLabelCount,
		},
		{
			name: "two labels",
			schema: schema.Schema{Features: []schema.Feature{
				{Name: "label", Kind: schema.KindLabel},
				{Name: "clicked", Kind: schema.KindLabel},
			}},
			wantErr: schema.ErrLabelCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestColumns(t *testing.T) {
	s := schema.Default()

	train := s.Columns(schema.ModeTrain)
	assert.Len(t, train, len(s.Features))

	predict := s.Columns(schema.ModePredict)
	assert.Len(t, predict, len(s.Features)-1)
	for _, f := range predict {
		assert.NotEqual(t, schema.KindLabel, f.Kind)
	}
}

func TestLabel(t *testing.T) {
	label, ok := schema.Default().Label()
	require.True(t, ok)
	assert.Equal(t, "label", label.Name)

	_, ok = schema.Schema{}.Label()
	assert.False(t, ok)
}

func TestParseKind(t *testing.T) {
	for _, kind := range []schema.Kind{schema.KindNumeric, schema.KindCategorical, schema.KindLabel} {
		parsed, err := schema.ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := schema.ParseKind("embedding")
	assert.ErrorIs(t, err, schema.ErrUnknownKind)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")

	want := schema.Default()
	require.NoError(t, want.Save(path))

	got, err := schema.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadErrors(t *testing.T) {
	_, err := schema.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
