// Command preprocess runs the click-prediction preprocessing pipeline
// over local CSV files and writes training, evaluation and prediction
// outputs to a directory.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	preprocess "github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/schema"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/transform"
)

var (
	trainingData = flag.String("training-data", "", "CSV file to analyze and encode as training features")
	evalData     = flag.String("eval-data", "", "CSV file to encode as evaluation features")
	predictData  = flag.String("predict-data", "", "Optional CSV file to encode as prediction features")
	outputDir    = flag.String("output-dir", "", "Directory in which to place outputs")

	frequencyThreshold = flag.Int64("frequency-threshold", transform.DefaultFrequencyThreshold,
		"Frequency below which categorical values are ignored")
	numBuckets = flag.Int("num-buckets", transform.DefaultNumBuckets,
		"Number of quantile buckets per numeric feature")
	schemaFile = flag.String("schema", "", "Optional YAML schema file; defaults to the built-in schema")
	seed       = flag.Int64("seed", 0, "Random seed for shuffling; 0 uses a nondeterministic seed")
	verbose    = flag.Bool("v", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *trainingData == "" || *evalData == "" || *outputDir == "" {
		logrus.Fatal("--training-data, --eval-data, --output-dir required")
	}

	opts := []preprocess.Option{
		preprocess.WithFrequencyThreshold(*frequencyThreshold),
		preprocess.WithNumBuckets(*numBuckets),
	}

	if *schemaFile != "" {
		s, err := schema.Load(*schemaFile)
		if err != nil {
			logrus.WithError(err).Fatal("failed to load schema")
		}
		opts = append(opts, preprocess.WithSchema(s))
	}

	if *seed != 0 {
		opts = append(opts, preprocess.WithRand(rand.New(rand.NewSource(*seed))))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := preprocess.Config{
		TrainingData: *trainingData,
		EvalData:     *evalData,
		PredictData:  *predictData,
		OutputDir:    *outputDir,
	}

	start := time.Now()
	if err := preprocess.Run(ctx, cfg, opts...); err != nil {
		logrus.WithError(err).Fatal("preprocessing failed")
	}
	logrus.WithField("elapsed", time.Since(start)).Info("preprocessing complete")
}
