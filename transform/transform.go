package transform

import (
	"fmt"
	"iter"
	"math/rand"

	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/example"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/schema"
)

// Defaults used when an Options field is zero.
const (
	DefaultFrequencyThreshold = 100
	DefaultNumBuckets         = 10
	defaultReservoirSize      = 1 << 16
)

// BucketSuffix names the companion bucket-index feature emitted for each
// numeric feature.
const BucketSuffix = "_bucket"

// Options control how the transform is fitted.
type Options struct {
	// FrequencyThreshold drops categorical terms seen fewer times.
	FrequencyThreshold int64
	// NumBuckets is the number of quantile buckets per numeric feature.
	NumBuckets int
	// ReservoirSize bounds the per-feature quantile sample.
	ReservoirSize int
	// Rand drives reservoir sampling; nil uses the global source.
	Rand *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.FrequencyThreshold == 0 {
		o.FrequencyThreshold = DefaultFrequencyThreshold
	}
	if o.NumBuckets == 0 {
		o.NumBuckets = DefaultNumBuckets
	}
	if o.ReservoirSize == 0 {
		o.ReservoirSize = defaultReservoirSize
	}
	return o
}

// Fn is a transform fitted over the training dataset.
type Fn struct {
	schema     schema.Schema
	numBuckets int
	vocabs     map[string]*Lookup
	stats      map[string]*NumericStats
	bounds     map[string][]float64
}

// Analyze fits a transform by streaming once over the training examples.
// The sequence yields decoded examples or a decode error; the first
// error aborts the analysis.
func Analyze(s schema.Schema, examples iter.Seq2[example.Example, error], opts Options) (*Fn, error) {
	opts = opts.withDefaults()

	vocabs := make(map[string]*Vocabulary)
	stats := make(map[string]*NumericStats)
	reservoirs := make(map[string]*Reservoir)
	for _, f := range s.Features {
		switch f.Kind {
		case schema.KindCategorical:
			vocabs[f.Name] = NewVocabulary(opts.FrequencyThreshold)
		case schema.KindNumeric:
			stats[f.Name] = &NumericStats{}
			reservoirs[f.Name] = NewReservoir(opts.ReservoirSize, opts.Rand)
		}
	}

	for ex, err := range examples {
		if err != nil {
			return nil, fmt.Errorf("transform: analyze: %w", err)
		}
		for _, f := range s.Features {
			v := ex[f.Name]
			switch f.Kind {
			case schema.KindCategorical:
				vocabs[f.Name].Add(term(v))
			case schema.KindNumeric:
				raw := numeric(v)
				stats[f.Name].Add(raw)
				reservoirs[f.Name].Add(raw)
			}
		}
	}

	fn := &Fn{
		schema:     s,
		numBuckets: opts.NumBuckets,
		vocabs:     make(map[string]*Lookup, len(vocabs)),
		stats:      stats,
		bounds:     make(map[string][]float64, len(reservoirs)),
	}
	for name, v := range vocabs {
		fn.vocabs[name] = NewLookup(v.Entries())
	}
	for name, r := range reservoirs {
		fn.bounds[name] = r.Boundaries(opts.NumBuckets)
	}
	return fn, nil
}

// Apply transforms one example: categorical terms become vocabulary
// indexes, numeric values become standardized log values plus a bucket
// index feature, the label passes through unchanged. Missing numeric
// values are treated as zero.
func (fn *Fn) Apply(ex example.Example) example.Example {
	out := make(example.Example, len(fn.schema.Features)+len(fn.stats))
	for _, f := range fn.schema.Features {
		v, present := ex[f.Name]
		switch f.Kind {
		case schema.KindLabel:
			if present {
				out[f.Name] = v
			}
		case schema.KindCategorical:
			out[f.Name] = example.Int(fn.vocabs[f.Name].Index(term(v)))
		case schema.KindNumeric:
			raw := numeric(v)
			out[f.Name] = example.Float(fn.stats[f.Name].Standardize(raw))
			out[f.Name+BucketSuffix] = example.Int(Bucketize(raw, fn.bounds[f.Name]))
		}
	}
	return out
}

// Vocab returns the fitted vocabulary lookup for a categorical feature.
func (fn *Fn) Vocab(name string) (*Lookup, bool) {
	l, ok := fn.vocabs[name]
	return l, ok
}

// Stats returns the fitted numeric statistics for a numeric feature.
func (fn *Fn) Stats(name string) (*NumericStats, bool) {
	s, ok := fn.stats[name]
	return s, ok
}

// Boundaries returns the fitted bucket boundaries for a numeric feature.
func (fn *Fn) Boundaries(name string) ([]float64, bool) {
	b, ok := fn.bounds[name]
	return b, ok
}

// TransformedSchema describes the examples produced by Apply: the
// original features plus one bucket-index feature per numeric feature.
func (fn *Fn) TransformedSchema() schema.Schema {
	features := make([]schema.Feature, 0, len(fn.schema.Features)+len(fn.stats))
	for _, f := range fn.schema.Features {
		features = append(features, f)
		if f.Kind == schema.KindNumeric {
			features = append(features, schema.Feature{
				Name: f.Name + BucketSuffix,
				Kind: schema.KindCategorical,
			})
		}
	}
	return schema.Schema{Features: features}
}

func term(v example.Value) string {
	if len(v.Strs) == 0 {
		return ""
	}
	return v.Strs[0]
}

func numeric(v example.Value) float64 {
	if len(v.Floats) == 0 {
		return 0
	}
	return v.Floats[0]
}
