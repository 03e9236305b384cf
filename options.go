package preprocess

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/schema"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/transform"
)

// options defines all configuration options for a preprocessing run.
type options struct {
	schema             schema.Schema
	frequencyThreshold int64
	numBuckets         int
	shardRecords       int
	rnd                *rand.Rand
	logger             logrus.FieldLogger
	storage            Storage
	compress           bool
}

// Option is a function that configures the run options.
type Option func(*options)

// WithSchema overrides the default input schema.
func WithSchema(s schema.Schema) Option {
	return func(o *options) {
		o.schema = s
	}
}

// WithFrequencyThreshold sets the count below which categorical terms
// are dropped from their vocabulary.
func WithFrequencyThreshold(threshold int64) Option {
	return func(o *options) {
		o.frequencyThreshold = threshold
	}
}

// WithNumBuckets sets the number of quantile buckets per numeric
// feature.
func WithNumBuckets(n int) Option {
	return func(o *options) {
		o.numBuckets = n
	}
}

// WithShardRecords sets the maximum number of records per output shard.
func WithShardRecords(n int) Option {
	return func(o *options) {
		o.shardRecords = n
	}
}

// WithRand sets the random source used for shuffling and sampling; a
// seeded source makes runs reproducible.
func WithRand(rnd *rand.Rand) Option {
	return func(o *options) {
		o.rnd = rnd
	}
}

// WithLogger sets the progress logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage overrides the default local filesystem shard storage.
func WithStorage(s Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithoutCompression writes plain record shards instead of gzip.
func WithoutCompression() Option {
	return func(o *options) {
		o.compress = false
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		schema:             schema.Default(),
		frequencyThreshold: transform.DefaultFrequencyThreshold,
		numBuckets:         transform.DefaultNumBuckets,
		shardRecords:       1 << 20,
		logger:             logrus.StandardLogger(),
		compress:           true,
	}
}
