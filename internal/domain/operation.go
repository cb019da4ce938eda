package domain

import "strings"

// RiskTier classifies how much damage a guarded operation can do.
type RiskTier string

const (
	// TierSafe operations are advisory; failure never stops the run.
	TierSafe RiskTier = "safe"
	// TierChecked operations must succeed in live mode and are skipped
	// in simulate mode.
	TierChecked RiskTier = "checked"
	// TierDangerous operations are irreversible and always pause for
	// confirmation in live mode.
	TierDangerous RiskTier = "dangerous"
)

// MoreSevere reports whether t outranks other.
func (t RiskTier) MoreSevere(other RiskTier) bool {
	return tierRank(t) > tierRank(other)
}

func tierRank(t RiskTier) int {
	switch t {
	case TierChecked:
		return 1
	case TierDangerous:
		return 2
	default:
		return 0
	}
}

// Operation describes one external command invocation mediated by the
// guard. Created at each call site; never persisted as-is.
type Operation struct {
	// Argv is the command and its arguments, exec-style (no shell).
	Argv []string
	// Failure is the human-readable message printed when the command
	// exits non-zero.
	Failure string
	// Tier is the call site's risk classification. The policy may
	// escalate it, never lower it.
	Tier RiskTier
	// Stage tags the journal entry with the provisioning stage.
	Stage string
	// Interactive hands the operator's terminal to the command
	// (fdisk, passwd). Interactive commands bypass output capture.
	Interactive bool
}

// CommandLine renders the argv as a single printable line.
func (o Operation) CommandLine() string {
	return strings.Join(o.Argv, " ")
}
