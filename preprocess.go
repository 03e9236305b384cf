// Package preprocess turns raw click-prediction CSV data into shuffled,
// serialized training records plus the metadata and transform artifacts
// a training job needs.
//
// A run makes one pass over the training CSV to fit the feature
// transform (vocabularies, numeric statistics, bucket boundaries), then
// transforms and serializes the training and evaluation datasets and
// writes them as record shards under the output directory. Training
// records are shuffled before writing so the trainer never sees the
// source ordering; evaluation records keep their order. An optional
// prediction dataset is encoded as-is, both as record shards and as
// base64-JSON text lines.
package preprocess

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/csvcoder"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/example"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/metadata"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/recordio"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/schema"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/shuffle"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/storage/local"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/transform"
)

// Configuration errors.
var (
	ErrMissingTrainingData = errors.New("preprocess: training data path required")
	ErrMissingEvalData     = errors.New("preprocess: eval data path required")
	ErrMissingOutputDir    = errors.New("preprocess: output directory required")
)

// Config names the datasets of one preprocessing run.
type Config struct {
	// TrainingData is the CSV file to analyze and encode as training
	// features.
	TrainingData string
	// EvalData is the CSV file to encode as evaluation features.
	EvalData string
	// PredictData is an optional CSV file to encode as prediction
	// features.
	PredictData string
	// OutputDir receives all outputs.
	OutputDir string
}

func (c Config) validate() error {
	if c.TrainingData == "" {
		return ErrMissingTrainingData
	}
	if c.EvalData == "" {
		return ErrMissingEvalData
	}
	if c.OutputDir == "" {
		return ErrMissingOutputDir
	}
	return nil
}

// Storage persists output files. Pending writes become visible only
// after Publish.
type Storage interface {
	// Create a new file for writing.
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	// Publish a previously created file under its final name.
	Publish(ctx context.Context, name string) error
}

// Run executes the preprocessing pipeline.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.schema.Validate(); err != nil {
		return err
	}

	store := o.storage
	if store == nil {
		var err error
		if store, err = local.NewStorage(cfg.OutputDir, TempDir); err != nil {
			return err
		}
	}

	log := o.logger

	log.WithField("path", cfg.TrainingData).Info("analyzing training data")
	fn, err := analyze(cfg.TrainingData, o)
	if err != nil {
		return err
	}

	if err := metadata.Write(filepath.Join(cfg.OutputDir, RawMetadataDir), metadata.DatasetMetadata{Schema: o.schema}); err != nil {
		return err
	}
	if err := metadata.Write(filepath.Join(cfg.OutputDir, TransformedMetadataDir), metadata.DatasetMetadata{Schema: fn.TransformedSchema()}); err != nil {
		return err
	}
	if err := fn.Save(filepath.Join(cfg.OutputDir, TransformFnDir)); err != nil {
		return err
	}

	trainRecords, err := transformFile(cfg.TrainingData, schema.ModeTrain, fn, o)
	if err != nil {
		return err
	}
	trainRecords = shuffle.Slice(trainRecords, o.rnd)
	if err := writeShards(ctx, store, TrainDataFilePrefix, trainRecords, o); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"records": len(trainRecords), "prefix": TrainDataFilePrefix}).Info("wrote training data")

	evalRecords, err := transformFile(cfg.EvalData, schema.ModeEval, fn, o)
	if err != nil {
		return err
	}
	if err := writeShards(ctx, store, EvalDataFilePrefix, evalRecords, o); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"records": len(evalRecords), "prefix": EvalDataFilePrefix}).Info("wrote eval data")

	if cfg.PredictData != "" {
		predictRecords, err := encodeFile(cfg.PredictData, schema.ModePredict, o)
		if err != nil {
			return err
		}
		if err := writeShards(ctx, store, PredictDataFilePrefix, predictRecords, o); err != nil {
			return err
		}
		if err := writeText(ctx, store, PredictDataFilePrefix+textFileSuffix, predictRecords); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"records": len(predictRecords), "prefix": PredictDataFilePrefix}).Info("wrote predict data")
	}

	return nil
}

// analyze fits the feature transform by streaming over the training CSV.
func analyze(path string, o options) (*transform.Fn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("preprocess: failed to open training data: %w", err)
	}
	defer f.Close()

	return transform.Analyze(o.schema, csvcoder.Read(f, csvcoder.NewDecoder(o.schema, schema.ModeTrain)), transform.Options{
		FrequencyThreshold: o.frequencyThreshold,
		NumBuckets:         o.numBuckets,
		Rand:               o.rnd,
	})
}

// transformFile decodes a CSV file, applies the fitted transform and
// serializes each example.
func transformFile(path string, mode schema.Mode, fn *transform.Fn, o options) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("preprocess: failed to open %s: %w", path, err)
	}
	defer f.Close()

	var records [][]byte
	for ex, err := range csvcoder.Read(f, csvcoder.NewDecoder(o.schema, mode)) {
		if err != nil {
			return nil, fmt.Errorf("preprocess: %s: %w", path, err)
		}
		b, err := example.Encode(fn.Apply(ex))
		if err != nil {
			return nil, fmt.Errorf("preprocess: %s: %w", path, err)
		}
		records = append(records, b)
	}
	return records, nil
}

// encodeFile decodes a CSV file and serializes each example without
// transforming it. Prediction inputs are served raw; the transform is
// applied at serving time.
func encodeFile(path string, mode schema.Mode, o options) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("preprocess: failed to open %s: %w", path, err)
	}
	defer f.Close()

	var records [][]byte
	for ex, err := range csvcoder.Read(f, csvcoder.NewDecoder(o.schema, mode)) {
		if err != nil {
			return nil, fmt.Errorf("preprocess: %s: %w", path, err)
		}
		b, err := example.Encode(ex)
		if err != nil {
			return nil, fmt.Errorf("preprocess: %s: %w", path, err)
		}
		records = append(records, b)
	}
	return records, nil
}

func shardName(prefix string, index, total int, suffix string) string {
	return fmt.Sprintf("%s-%05d-of-%05d%s", prefix, index, total, suffix)
}

// writeShards splits records into shards of at most shardRecords each
// and publishes them. An empty dataset still publishes one empty shard
// so consumers can tell an empty dataset from a failed run.
func writeShards(ctx context.Context, store Storage, prefix string, records [][]byte, o options) error {
	suffix := recordFileSuffix
	if o.compress {
		suffix = compressedFileSuffix
	}

	total := (len(records) + o.shardRecords - 1) / o.shardRecords
	if total == 0 {
		total = 1
	}

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lo := i * o.shardRecords
		hi := min(lo+o.shardRecords, len(records))
		name := shardName(prefix, i, total, suffix)
		if err := writeShard(ctx, store, name, records[lo:hi], o.compress); err != nil {
			return err
		}
	}
	return nil
}

func writeShard(ctx context.Context, store Storage, name string, records [][]byte, compress bool) error {
	wc, err := store.Create(ctx, name)
	if err != nil {
		return err
	}

	w := recordio.NewWriter(wc, compress)
	for _, record := range records {
		if err := w.Write(record); err != nil {
			wc.Close()
			return fmt.Errorf("preprocess: failed to write shard %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		wc.Close()
		return fmt.Errorf("preprocess: failed to close shard %s: %w", name, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("preprocess: failed to close shard %s: %w", name, err)
	}

	return store.Publish(ctx, name)
}

// writeText publishes records as base64-JSON lines.
func writeText(ctx context.Context, store Storage, name string, records [][]byte) error {
	wc, err := store.Create(ctx, name)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(wc)
	for _, record := range records {
		line, err := example.EncodeBase64JSON(record)
		if err != nil {
			wc.Close()
			return fmt.Errorf("preprocess: failed to encode %s: %w", name, err)
		}
		if _, err := bw.Write(line); err != nil {
			wc.Close()
			return fmt.Errorf("preprocess: failed to write %s: %w", name, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			wc.Close()
			return fmt.Errorf("preprocess: failed to write %s: %w", name, err)
		}
	}
	if err := bw.Flush(); err != nil {
		wc.Close()
		return fmt.Errorf("preprocess: failed to flush %s: %w", name, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("preprocess: failed to close %s: %w", name, err)
	}

	return store.Publish(ctx, name)
}
