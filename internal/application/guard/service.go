package guard

import (
	"context"
	"errors"
	"time"

	"github.com/doeshing/rigup/internal/domain"
	"github.com/doeshing/rigup/internal/ports"
)

// Service is the single decision point in front of every privileged
// external invocation. It dispatches on (risk tier, execution mode),
// asks the confirmation gate before irreversible work in live mode,
// and journals every decision. The service never terminates the
// process; callers act on the returned outcome.
type Service struct {
	Mode      domain.Mode
	SessionID string
	Runner    ports.CommandRunner
	Gate      ports.ConfirmationPrompter
	Policy    ports.PolicyService
	Journal   ports.JournalStore
	Renderer  ports.Renderer
	Logger    ports.Logger
}

// Run dispatches op according to its declared risk tier: Safe runs
// checked, Checked runs guarded by mode, Dangerous demands
// confirmation. Each entry point re-checks the policy, so escalation
// applies no matter which one the call site picked.
func (s *Service) Run(ctx context.Context, op domain.Operation) domain.Outcome {
	switch op.Tier {
	case domain.TierDangerous:
		return s.RunDangerous(ctx, op)
	case domain.TierChecked:
		return s.RunGuarded(ctx, op)
	default:
		return s.RunChecked(ctx, op)
	}
}

// RunChecked executes op and reports failure without stopping the
// session. Used for advisory commands whose failure should not block
// anything. A policy escalation to Dangerous overrides the call site
// and diverts through RunDangerous.
func (s *Service) RunChecked(ctx context.Context, op domain.Operation) domain.Outcome {
	if s.effectiveTier(op) == domain.TierDangerous {
		return s.RunDangerous(ctx, op)
	}
	return s.execute(ctx, op, false)
}

// RunRequired executes op unconditionally; a non-zero exit is fatal
// for the session. Used when failure makes all further stages
// meaningless. The policy is deliberately not consulted here: the
// call site has already decided the command must run.
func (s *Service) RunRequired(ctx context.Context, op domain.Operation) domain.Outcome {
	return s.execute(ctx, op, true)
}

// RunGuarded consults the execution mode: simulate prints the
// would-be command and succeeds without side effects, live behaves
// like RunRequired. A policy escalation to Dangerous overrides the
// call site and diverts through RunDangerous.
func (s *Service) RunGuarded(ctx context.Context, op domain.Operation) domain.Outcome {
	if s.effectiveTier(op) == domain.TierDangerous {
		return s.RunDangerous(ctx, op)
	}
	if !s.Mode.Live() {
		return s.simulate(op)
	}
	return s.RunRequired(ctx, op)
}

// RunDangerous handles irreversible operations. Simulate prints the
// command and does nothing. Live prints the command, asks the gate,
// and only an explicit 'y' lets the command run; anything else aborts
// the session.
func (s *Service) RunDangerous(ctx context.Context, op domain.Operation) domain.Outcome {
	if !s.Mode.Live() {
		return s.simulate(op)
	}

	s.Renderer.Command(op.CommandLine())
	confirmed, err := s.confirm()
	if err != nil || !confirmed {
		outcome := domain.Declined("operator declined: " + op.CommandLine())
		s.journal(op, outcome, 0)
		return outcome
	}
	return s.RunRequired(ctx, op)
}

func (s *Service) confirm() (bool, error) {
	if s.Gate == nil || !s.Gate.Enabled() {
		return false, errors.New("confirmation gate unavailable")
	}
	return s.Gate.Confirm("Execute this command?")
}

func (s *Service) simulate(op domain.Operation) domain.Outcome {
	s.Renderer.Warn("[simulate] %s", op.CommandLine())
	outcome := domain.Simulated()
	s.journal(op, outcome, 0)
	return outcome
}

func (s *Service) execute(ctx context.Context, op domain.Operation, fatal bool) domain.Outcome {
	s.logDebug("executing", op)
	result, err := s.Runner.Run(ctx, op)

	var outcome domain.Outcome
	switch {
	case err != nil && !result.Ran:
		outcome = domain.Failed(op.Failure+": "+err.Error(), result.ExitCode, fatal)
	case result.ExitCode != 0:
		outcome = domain.Failed(op.Failure, result.ExitCode, fatal)
	default:
		outcome = domain.Succeeded()
	}

	if outcome.Status == domain.StatusFailure {
		s.Renderer.Error("%s (command: %s, exit %d)", outcome.Message, op.CommandLine(), outcome.ExitCode)
	}
	s.journal(op, outcome, result.DurationMS)
	return outcome
}

// effectiveTier raises the call site's declared tier when the policy
// recognizes the command as riskier. It never lowers a tier.
func (s *Service) effectiveTier(op domain.Operation) domain.RiskTier {
	tier := op.Tier
	if s.Policy == nil {
		return tier
	}
	decision, err := s.Policy.Classify(op.CommandLine())
	if err != nil {
		return tier
	}
	if decision.Tier.MoreSevere(tier) {
		for _, reason := range decision.Reasons {
			s.Renderer.Warn("policy: %s", reason)
		}
		return decision.Tier
	}
	return tier
}

func (s *Service) journal(op domain.Operation, outcome domain.Outcome, durationMS int64) {
	if s.Journal == nil {
		return
	}
	record := domain.JournalRecord{
		Timestamp:  time.Now(),
		Session:    s.SessionID,
		Stage:      op.Stage,
		Command:    op.CommandLine(),
		Tier:       op.Tier,
		Mode:       s.Mode,
		Executed:   outcome.Executed,
		Success:    outcome.Status == domain.StatusSuccess,
		ExitCode:   outcome.ExitCode,
		DurationMS: durationMS,
	}
	if err := s.Journal.Save(record); err != nil {
		s.logWarn("journal save failed", err)
	}
}

func (s *Service) logDebug(msg string, op domain.Operation) {
	if s.Logger != nil {
		s.Logger.Debug(msg, map[string]interface{}{"command": op.CommandLine(), "stage": op.Stage})
	}
}

func (s *Service) logWarn(msg string, err error) {
	if s.Logger != nil {
		s.Logger.Warn(msg, map[string]interface{}{"error": err.Error()})
	}
}
