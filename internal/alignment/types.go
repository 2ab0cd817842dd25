package alignment

// #region state

// Tolerance is the maximum allowed drift between the derived scalar and
// primary + offset after any mutation.
const Tolerance = 1e-5

// State holds the paired cognitive scalars and their fixed offset.
// The invariant derived = primary + offset must hold after every cycle.
type State struct {
	PrimaryScalar float64
	FixedOffset   float64
	DerivedScalar float64
}

// NewState creates a State with the derived scalar computed from the invariant.
func NewState(primary, offset float64) State {
	return State{
		PrimaryScalar: primary,
		FixedOffset:   offset,
		DerivedScalar: primary + offset,
	}
}

// Diff returns the signed drift of the derived scalar from the invariant.
func (s State) Diff() float64 {
	return s.DerivedScalar - (s.PrimaryScalar + s.FixedOffset)
}

// #endregion state

// #region jump-label

// JumpLabel names a jump domain. Static configuration, read-only during processing.
type JumpLabel string

const (
	JumpModeA JumpLabel = "mode-a"
)

// #endregion jump-label

// #region flags

// Flags is the auxiliary toggle state consumed by the monitor.
// PureMode, FogPresent, and BreathingActive flip every cycle.
type Flags struct {
	PureMode        bool
	FogPresent      bool
	BreathingActive bool
	JumpEnabled     bool
	JumpLabel       JumpLabel
}

// DefaultFlags returns the starting toggle configuration.
func DefaultFlags() Flags {
	return Flags{
		PureMode:        true,
		FogPresent:      false,
		BreathingActive: false,
		JumpEnabled:     true,
		JumpLabel:       JumpModeA,
	}
}

// #endregion flags

// #region severity

// Severity tiers an integrity violation by drift magnitude.
type Severity string

const (
	SeverityLow    Severity = "low"    // drift within 10x tolerance
	SeverityMedium Severity = "medium" // drift within 100x tolerance
	SeverityHigh   Severity = "high"   // anything beyond
)

// #endregion severity

// #region integrity-report

// IntegrityReport is the read-only diagnostic for the alignment invariant.
type IntegrityReport struct {
	Intact     bool
	Message    string
	Severity   Severity
	Diff       float64
	Correction float64 // derived value that would restore the invariant
}

// #endregion integrity-report
