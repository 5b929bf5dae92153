package types

import "fmt"

// SignalType is the discrete label of a per-indicator signal or a fused decision.
// The integer values are the persisted encoding.
type SignalType int

const (
	// SignalTypeNeutral means no action for the day
	SignalTypeNeutral SignalType = 0
	// SignalTypeSell means the indicator favours selling
	SignalTypeSell SignalType = 1
	// SignalTypeBuy means the indicator favours buying
	SignalTypeBuy SignalType = 2
)

// String returns the upper-case label used in logs and prompts.
func (s SignalType) String() string {
	switch s {
	case SignalTypeBuy:
		return "BUY"
	case SignalTypeSell:
		return "SELL"
	case SignalTypeNeutral:
		return "NEUTRAL"
	default:
		return fmt.Sprintf("SignalType(%d)", int(s))
	}
}

// Code returns the persisted integer encoding.
func (s SignalType) Code() int {
	return int(s)
}

// Valid reports whether s is one of the three defined labels.
func (s SignalType) Valid() bool {
	return s == SignalTypeNeutral || s == SignalTypeSell || s == SignalTypeBuy
}

// ParseSignalCode converts a persisted integer back into a SignalType.
func ParseSignalCode(code int) (SignalType, error) {
	s := SignalType(code)
	if !s.Valid() {
		return SignalTypeNeutral, fmt.Errorf("invalid signal code %d, expected 0, 1 or 2", code)
	}

	return s, nil
}
