package metadata_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/metadata"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/schema"
)

func TestWriteRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw_metadata")

	want := metadata.DatasetMetadata{Schema: schema.Default()}
	require.NoError(t, metadata.Write(dir, want))

	got, err := metadata.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadMissing(t *testing.T) {
	_, err := metadata.Read(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
