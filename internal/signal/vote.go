package signal

import "github.com/rxtech-lab/argo-signals/internal/types"

// Tally counts the signals cast for one date.
type Tally struct {
	Buy     int
	Sell    int
	Neutral int
}

// Decision applies the strict plurality rule: BUY or SELL only with more
// votes than the other side, NEUTRAL on any tie.
func (t Tally) Decision() types.SignalType {
	switch {
	case t.Buy > t.Sell:
		return types.SignalTypeBuy
	case t.Sell > t.Buy:
		return types.SignalTypeSell
	default:
		return types.SignalTypeNeutral
	}
}

// Vote fuses the signals of one date into a final decision.
func Vote(signals []types.SignalType) (types.SignalType, Tally) {
	var t Tally

	for _, s := range signals {
		switch s {
		case types.SignalTypeBuy:
			t.Buy++
		case types.SignalTypeSell:
			t.Sell++
		default:
			t.Neutral++
		}
	}

	return t.Decision(), t
}
