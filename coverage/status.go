package coverage

// Status is the three-tier classification of an assembly's coverage.
type Status string

const (
	StatusOK       Status = "ok"
	StatusMarginal Status = "marginal"
	StatusPoor     Status = "poor"
)

// Classify buckets a coverage percentage against the configured thresholds:
// ok at or above okThreshold, marginal at or above warnThreshold, poor below.
func Classify(pct, okThreshold, warnThreshold float64) Status {
	switch {
	case pct >= okThreshold:
		return StatusOK
	case pct >= warnThreshold:
		return StatusMarginal
	default:
		return StatusPoor
	}
}

// Marker returns the fixed-width table marker for a status.
func (s Status) Marker() string {
	switch s {
	case StatusOK:
		return "[OK]"
	case StatusMarginal:
		return "[--]"
	default:
		return "[!!]"
	}
}
