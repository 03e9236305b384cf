// Package transform fits feature transformations over the training
// dataset and applies them to individual examples.
//
// One streaming pass over the training examples fits, per feature:
//
//   - categorical: a frequency-thresholded vocabulary ordered by
//     descending count; terms map to their vocabulary index and
//     out-of-vocabulary terms map to -1.
//   - numeric: mean and standard deviation of the log1p-transformed
//     values, used to emit a standardized value, plus quantile bucket
//     boundaries used to emit a companion <name>_bucket index feature.
//
// The fitted transform is persisted under the output directory so
// training and serving can reload the exact same mapping.
package transform
