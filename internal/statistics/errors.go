package statistics

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned (wrapped) whenever the inputs cannot
// support a test. It is an expected outcome, not a fault.
var ErrInsufficientData = errors.New("insufficient data")

var (
	ErrMismatchedLengths   = fmt.Errorf("%w: samples differ in length", ErrInsufficientData)
	ErrSampleSize          = fmt.Errorf("%w: too few observations", ErrInsufficientData)
	ErrNoPredictorVariance = fmt.Errorf("%w: predictor has zero variance", ErrInsufficientData)
)
