package indicator

import (
	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// OBV is on-balance volume: the running sum of volume, added on up closes and
// subtracted on down closes. It starts at the first bar's volume.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() Indicator {
	return &OBV{}
}

// Name returns the name of the indicator.
func (o *OBV) Name() types.IndicatorType {
	return types.IndicatorTypeOBV
}

func (o *OBV) Validate(_ Params) error {
	return nil
}

func (o *OBV) Columns(_ Params) []string {
	return []string{ColumnOBV}
}

func (o *OBV) Lookback(_ Params) int {
	return 0
}

// RequiresVolume implements VolumeIndicator.
func (o *OBV) RequiresVolume() bool {
	return true
}

func (o *OBV) Compute(bars *Bars, _ Params) ([]Series, error) {
	return []Series{{Name: ColumnOBV, Values: masked(talib.Obv(bars.Close, bars.Volume), 0)}}, nil
}
