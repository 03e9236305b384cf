package preprocess

// Fixed layout of the output directory. Training jobs depend on these
// names, so they change together with the trainer.
const (
	RawMetadataDir         = "raw_metadata"
	TransformedMetadataDir = "transformed_metadata"
	TransformFnDir         = "transform_fn"
	TempDir                = "tmp"

	TrainDataFilePrefix   = "features_train"
	EvalDataFilePrefix    = "features_eval"
	PredictDataFilePrefix = "features_predict"

	recordFileSuffix     = ".recordio"
	compressedFileSuffix = ".recordio.gz"
	textFileSuffix       = ".txt"
)
