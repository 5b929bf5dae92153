package signal

import (
	"math"

	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// FillPolicy controls how undefined indicator values are treated before rule
// comparison.
type FillPolicy string

const (
	// FillForwardBackward carries the last defined value forward, then the
	// first defined value backward.
	FillForwardBackward FillPolicy = "ffill_bfill"
	// FillNone leaves undefined values in place, so they vote NEUTRAL.
	FillNone FillPolicy = "none"
)

// ParseFillPolicy accepts the empty string as the default policy.
func ParseFillPolicy(s string) (FillPolicy, error) {
	switch FillPolicy(s) {
	case "", FillForwardBackward:
		return FillForwardBackward, nil
	case FillNone:
		return FillNone, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown fill policy %q", s)
	}
}

// apply returns a filled copy of values. The input is never modified.
func (p FillPolicy) apply(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)

	if p != FillForwardBackward {
		return out
	}

	last := math.NaN()
	for i, v := range out {
		if math.IsNaN(v) {
			out[i] = last
		} else {
			last = v
		}
	}

	next := math.NaN()
	for i := len(out) - 1; i >= 0; i-- {
		if math.IsNaN(out[i]) {
			out[i] = next
		} else {
			next = out[i]
		}
	}

	return out
}
