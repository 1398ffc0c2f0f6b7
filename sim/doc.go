// Package sim builds and evaluates engine-deck propulsion surrogates.
//
// # Reading Guide
//
// Start with these three files:
//   - config.go: Config, the YAML loader and validation
//   - train.go: Build, which turns a Config and an engine deck into a FittedModel
//   - propulsor.go: Evaluate and the Propulsor facade used by flight simulations
//
// extended.go holds the extended evaluator, which classifies each throttle
// setting into one of five regimes and extrapolates or blends outside [0, 1].
//
// # Architecture
//
// The sim package orchestrates; leaf packages do the work:
//   - sim/deck/: engine deck CSV loading and deduplication
//   - sim/surrogate/: regression families (Gaussian process, KNN, SVR, linear)
//   - sim/blend/: smoothstep weights for the throttle blend bands
//   - sim/trace/: regime decision records and summaries
//
// # Lifecycle
//
// A Config is immutable once loaded. Build produces a FittedModel carrying the
// Config, both predictors and every normalization scale, so evaluation can
// never mix scales from different builds. Evaluate is pure and safe for
// concurrent use on a shared FittedModel.
package sim
