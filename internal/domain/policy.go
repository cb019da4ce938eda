package domain

// PolicyDecision is the result of matching a command line against the
// risk policy rules.
type PolicyDecision struct {
	Tier         RiskTier
	Reasons      []string
	MatchedRules []string
}

// ExecutionResult captures how one external command ran.
type ExecutionResult struct {
	Ran        bool
	ExitCode   int
	DurationMS int64
	Err        error
}
