package domain

// Mode controls whether guarded operations actually execute.
type Mode string

const (
	// ModeSimulate prints guarded commands instead of running them.
	ModeSimulate Mode = "simulate"
	// ModeLive executes guarded commands against the real system.
	ModeLive Mode = "live"
)

// Live reports whether the mode executes commands for real.
func (m Mode) Live() bool {
	return m == ModeLive
}
