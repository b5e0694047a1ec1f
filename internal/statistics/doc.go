// Package statistics is a self-contained inference engine: descriptive
// statistics, paired and Welch t-tests, and simple linear regression.
//
// p-values come from a Student's t CDF built on a Lanczos log-gamma and a
// continued-fraction regularized incomplete beta function; no external
// numerics library is used.
//
// All functions are pure and safe for concurrent use. Inputs are plain
// float64 slices and must not contain NaN or ±Inf. When a test cannot be
// computed the result is nil and the error wraps ErrInsufficientData.
package statistics
