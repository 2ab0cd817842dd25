package alignment

// #region imports
import (
	"fmt"
	"log"
	"math"
	"math/rand"
)

// #endregion imports

// #region config

// Config tunes the per-cycle breathing perturbation.
type Config struct {
	BreathRate float64 // base perturbation rate per cycle (0.001 = ±0.1%)
	JitterSpan float64 // extra rate drawn from the RNG, 0 disables jitter
	Tolerance  float64
}

// DefaultConfig returns the rates observed in every known configuration.
func DefaultConfig() Config {
	return Config{
		BreathRate: 0.001,
		JitterSpan: 0.0002,
		Tolerance:  Tolerance,
	}
}

// #endregion config

// #region monitor

// Monitor validates and advances the alignment invariant once per processed
// message. The RNG is injected so replay runs and tests stay deterministic.
type Monitor struct {
	config Config
	rng    *rand.Rand
}

// NewMonitor creates a Monitor. rng may be nil, which disables jitter and
// jump selection entirely (pure fixed-rate breathing).
func NewMonitor(config Config, rng *rand.Rand) *Monitor {
	if config.Tolerance <= 0 {
		config.Tolerance = Tolerance
	}
	return &Monitor{config: config, rng: rng}
}

// #endregion monitor

// #region tick

// TickResult bundles the advanced state and flags for one cycle.
type TickResult struct {
	State  State
	Flags  Flags
	Jumped bool // jump domain was re-selected this cycle
}

// Tick advances the alignment state by one cycle: flip the breathing and mode
// toggles, perturb the primary scalar, then recompute the derived scalar
// unconditionally so it can never drift independently.
func (m *Monitor) Tick(st State, flags Flags) TickResult {
	// Out-of-band mutation shows up here, before the recompute repairs it.
	if rep := m.CheckIntegrity(st); !rep.Intact {
		log.Printf("[ALIGN] drift repaired: %s", rep.Message)
	}

	flags.BreathingActive = !flags.BreathingActive
	flags.PureMode = !flags.PureMode
	flags.FogPresent = !flags.FogPresent

	rate := m.config.BreathRate
	if m.rng != nil && m.config.JitterSpan > 0 {
		rate += m.config.JitterSpan * m.rng.Float64()
	}

	if flags.BreathingActive {
		st.PrimaryScalar *= 1 + rate
	} else {
		st.PrimaryScalar *= 1 - rate
	}
	st.DerivedScalar = st.PrimaryScalar + st.FixedOffset

	jumped := false
	if flags.JumpEnabled && m.rng != nil {
		jumped = m.rng.Float64() < 0.02
	}

	return TickResult{State: st, Flags: flags, Jumped: jumped}
}

// #endregion tick

// #region check-integrity

// CheckIntegrity reports whether the invariant holds, without mutating state.
func (m *Monitor) CheckIntegrity(st State) IntegrityReport {
	return CheckIntegrity(st, m.config.Tolerance)
}

// CheckIntegrity validates derived = primary + offset within tolerance and
// tiers any violation by drift magnitude.
func CheckIntegrity(st State, tolerance float64) IntegrityReport {
	if tolerance <= 0 {
		tolerance = Tolerance
	}
	diff := st.Diff()
	abs := math.Abs(diff)
	correction := st.PrimaryScalar + st.FixedOffset

	if abs <= tolerance {
		return IntegrityReport{
			Intact:     true,
			Message:    "alignment intact",
			Severity:   SeverityLow,
			Diff:       diff,
			Correction: correction,
		}
	}

	sev := SeverityHigh
	switch {
	case abs <= tolerance*10:
		sev = SeverityLow
	case abs <= tolerance*100:
		sev = SeverityMedium
	}

	return IntegrityReport{
		Intact:     false,
		Message:    fmt.Sprintf("derived scalar drifted by %.8f (tolerance %.8f)", diff, tolerance),
		Severity:   sev,
		Diff:       diff,
		Correction: correction,
	}
}

// Repair recomputes the derived scalar from the invariant.
func Repair(st State) State {
	st.DerivedScalar = st.PrimaryScalar + st.FixedOffset
	return st
}

// #endregion check-integrity
