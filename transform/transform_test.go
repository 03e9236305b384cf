package transform_test

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/example"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/schema"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/transform"
)

func testSchema() schema.Schema {
	return schema.Schema{Features: []schema.Feature{
		{Name: "label", Kind: schema.KindLabel},
		{Name: "ad_id", Kind: schema.KindCategorical},
		{Name: "ad_views", Kind: schema.KindNumeric},
	}}
}

func exampleSeq(examples []example.Example) func(yield func(example.Example, error) bool) {
	return func(yield func(example.Example, error) bool) {
		for _, ex := range examples {
			if !yield(ex, nil) {
				return
			}
		}
	}
}

func trainingExamples() []example.Example {
	var examples []example.Example
	add := func(adID string, n int) {
		for i := 0; i < n; i++ {
			examples = append(examples, example.Example{
				"label":    example.Int(int64(i % 2)),
				"ad_id":    example.Str(adID),
				"ad_views": example.Float(float64(len(examples))),
			})
		}
	}
	add("popular", 5)
	add("common", 3)
	add("rare", 1)
	return examples
}

func TestVocabulary(t *testing.T) {
	v := transform.NewVocabulary(2)
	for _, term := range []string{"b", "a", "b", "a", "c", "b"} {
		v.Add(term)
	}

	entries := v.Entries()
	// "c" is below the threshold; "b" outranks "a" by count.
	require.Equal(t, []transform.Entry{
		{Term: "b", Count: 3},
		{Term: "a", Count: 2},
	}, entries)

	lookup := transform.NewLookup(entries)
	assert.Equal(t, int64(0), lookup.Index("b"))
	assert.Equal(t, int64(1), lookup.Index("a"))
	assert.Equal(t, transform.OOVIndex, lookup.Index("c"))
	assert.Equal(t, 2, lookup.Len())
}

func TestVocabularyTieBreaksOnTerm(t *testing.T) {
	v := transform.NewVocabulary(1)
	v.Add("zebra")
	v.Add("apple")

	assert.Equal(t, []transform.Entry{
		{Term: "apple", Count: 1},
		{Term: "zebra", Count: 1},
	}, v.Entries())
}

func TestNumericStats(t *testing.T) {
	var s transform.NumericStats
	for _, x := range []float64{0, 0, 0, 0} {
		s.Add(x)
	}
	assert.Equal(t, 0.0, s.Mean())
	assert.Equal(t, 0.0, s.StdDev())
	// Constant features standardize to zero instead of dividing by zero.
	assert.Equal(t, 0.0, s.Standardize(0))

	var v transform.NumericStats
	v.Add(0)          // log1p(0) = 0
	v.Add(math.E - 1) // log1p(e-1) = 1
	assert.InDelta(t, 0.5, v.Mean(), 1e-9)
	assert.InDelta(t, 0.5, v.StdDev(), 1e-9)
	assert.InDelta(t, 1.0, v.Standardize(math.E-1), 1e-9)
	assert.InDelta(t, -1.0, v.Standardize(0), 1e-9)
}

func TestReservoirBoundaries(t *testing.T) {
	r := transform.NewReservoir(1000, rand.New(rand.NewSource(1)))
	for i := 0; i < 100; i++ {
		r.Add(float64(i))
	}

	boundaries := r.Boundaries(4)
	require.Len(t, boundaries, 3)
	assert.IsIncreasing(t, boundaries)

	assert.Equal(t, int64(0), transform.Bucketize(-5, boundaries))
	assert.Equal(t, int64(3), transform.Bucketize(1000, boundaries))
}

func TestReservoirBoundedSample(t *testing.T) {
	r := transform.NewReservoir(10, rand.New(rand.NewSource(1)))
	for i := 0; i < 10000; i++ {
		r.Add(float64(i))
	}

	boundaries := r.Boundaries(5)
	assert.LessOrEqual(t, len(boundaries), 4)
	assert.IsIncreasing(t, boundaries)
}

func TestAnalyzeAndApply(t *testing.T) {
	fn, err := transform.Analyze(testSchema(), exampleSeq(trainingExamples()), transform.Options{
		FrequencyThreshold: 2,
		NumBuckets:         3,
		Rand:               rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)

	lookup, ok := fn.Vocab("ad_id")
	require.True(t, ok)
	assert.Equal(t, 2, lookup.Len())
	assert.Equal(t, int64(0), lookup.Index("popular"))
	assert.Equal(t, int64(1), lookup.Index("common"))
	assert.Equal(t, transform.OOVIndex, lookup.Index("rare"))

	got := fn.Apply(example.Example{
		"label":    example.Int(1),
		"ad_id":    example.Str("common"),
		"ad_views": example.Float(3),
	})

	assert.Equal(t, example.Int(1), got["label"])
	assert.Equal(t, example.Int(1), got["ad_id"])
	require.Contains(t, got, "ad_views")
	require.Contains(t, got, "ad_views"+transform.BucketSuffix)

	stats, ok := fn.Stats("ad_views")
	require.True(t, ok)
	assert.InDelta(t, stats.Standardize(3), got["ad_views"].Floats[0], 1e-9)

	// Unseen terms map to the out-of-vocabulary index.
	oov := fn.Apply(example.Example{
		"label": example.Int(0),
		"ad_id": example.Str("brand-new"),
	})
	assert.Equal(t, example.Int(transform.OOVIndex), oov["ad_id"])
}

func TestAnalyzePropagatesError(t *testing.T) {
	failing := func(yield func(example.Example, error) bool) {
		yield(nil, assert.AnError)
	}

	_, err := transform.Analyze(testSchema(), failing, transform.Options{})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTransformedSchema(t *testing.T) {
	fn, err := transform.Analyze(testSchema(), exampleSeq(trainingExamples()), transform.Options{
		FrequencyThreshold: 1,
	})
	require.NoError(t, err)

	ts := fn.TransformedSchema()
	names := make([]string, 0, len(ts.Features))
	for _, f := range ts.Features {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"label", "ad_id", "ad_views", "ad_views_bucket"}, names)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "transform_fn")

	fn, err := transform.Analyze(testSchema(), exampleSeq(trainingExamples()), transform.Options{
		FrequencyThreshold: 2,
		NumBuckets:         3,
		Rand:               rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	require.NoError(t, fn.Save(dir))

	loaded, err := transform.Load(dir, testSchema())
	require.NoError(t, err)

	ex := example.Example{
		"label":    example.Int(1),
		"ad_id":    example.Str("popular"),
		"ad_views": example.Float(7),
	}
	assert.Equal(t, fn.Apply(ex), loaded.Apply(ex))
}

func TestLoadMissingDir(t *testing.T) {
	_, err := transform.Load(filepath.Join(t.TempDir(), "nope"), testSchema())
	assert.Error(t, err)
}
