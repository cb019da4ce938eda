package guard

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/doeshing/rigup/internal/domain"
)

func dangerousOp() domain.Operation {
	return domain.Operation{
		Argv:    []string{"mkfs.ext4", "/dev/sda2"},
		Failure: "formatting root partition failed",
		Tier:    domain.TierDangerous,
		Stage:   domain.StageEncrypt,
	}
}

func newService(mode domain.Mode, runner *stubRunner, gate *stubGate) (*Service, *stubRenderer, *stubJournal) {
	renderer := &stubRenderer{}
	journal := &stubJournal{}
	svc := &Service{
		Mode:      mode,
		SessionID: "test",
		Runner:    runner,
		Journal:   journal,
		Renderer:  renderer,
	}
	if gate != nil {
		svc.Gate = gate
	}
	return svc, renderer, journal
}

func TestDangerousSimulateNeverExecutes(t *testing.T) {
	runner := &stubRunner{}
	svc, renderer, journal := newService(domain.ModeSimulate, runner, &stubGate{})

	outcome := svc.RunDangerous(context.Background(), dangerousOp())

	if runner.calls != 0 {
		t.Fatalf("runner invoked %d times in simulate mode", runner.calls)
	}
	if outcome.Status != domain.StatusSuccess || outcome.Executed {
		t.Fatalf("expected simulated success, got %+v", outcome)
	}
	if !renderer.contains("mkfs.ext4 /dev/sda2") {
		t.Fatalf("diagnostic missing literal command: %v", renderer.lines)
	}
	if len(journal.records) != 1 || journal.records[0].Executed {
		t.Fatalf("simulated op not journaled correctly: %+v", journal.records)
	}
}

func TestDangerousLiveDeclinedAborts(t *testing.T) {
	runner := &stubRunner{}
	svc, _, _ := newService(domain.ModeLive, runner, &stubGate{answer: false})

	outcome := svc.RunDangerous(context.Background(), dangerousOp())

	if runner.calls != 0 {
		t.Fatalf("declined command still executed %d times", runner.calls)
	}
	if outcome.Status != domain.StatusAborted || !outcome.Fatal {
		t.Fatalf("expected fatal abort, got %+v", outcome)
	}
}

func TestDangerousLiveConfirmedExecutesOnce(t *testing.T) {
	runner := &stubRunner{}
	svc, _, _ := newService(domain.ModeLive, runner, &stubGate{answer: true})

	outcome := svc.RunDangerous(context.Background(), dangerousOp())

	if runner.calls != 1 {
		t.Fatalf("runner invoked %d times, want 1", runner.calls)
	}
	if outcome.Status != domain.StatusSuccess || !outcome.Executed {
		t.Fatalf("expected executed success, got %+v", outcome)
	}
}

func TestDangerousLiveWithoutGateRefuses(t *testing.T) {
	runner := &stubRunner{}
	svc, _, _ := newService(domain.ModeLive, runner, nil)

	outcome := svc.RunDangerous(context.Background(), dangerousOp())

	if runner.calls != 0 {
		t.Fatal("command executed with no gate available")
	}
	if !outcome.Fatal {
		t.Fatalf("expected fatal outcome, got %+v", outcome)
	}
}

func TestRequiredFailureIsFatal(t *testing.T) {
	runner := &stubRunner{exitCode: 1}
	svc, _, _ := newService(domain.ModeLive, runner, &stubGate{})

	outcome := svc.RunRequired(context.Background(), domain.Operation{
		Argv:    []string{"mount", "/dev/sda2", "/mnt"},
		Failure: "mounting root failed",
		Tier:    domain.TierChecked,
	})

	if outcome.Status != domain.StatusFailure || !outcome.Fatal {
		t.Fatalf("expected fatal failure, got %+v", outcome)
	}
	if outcome.ExitCode != 1 {
		t.Fatalf("exit code = %d, want 1", outcome.ExitCode)
	}
}

func TestCheckedFailureContinues(t *testing.T) {
	runner := &stubRunner{exitCode: 2}
	svc, _, _ := newService(domain.ModeLive, runner, &stubGate{})

	outcome := svc.RunChecked(context.Background(), domain.Operation{
		Argv:    []string{"lsblk"},
		Failure: "partition listing failed",
		Tier:    domain.TierSafe,
	})

	if outcome.Status != domain.StatusFailure {
		t.Fatalf("expected failure, got %+v", outcome)
	}
	if outcome.Fatal {
		t.Fatal("checked failure must not be fatal")
	}
	if !outcome.OK() {
		t.Fatal("sequence should continue past a checked failure")
	}
}

func TestGuardedSimulateSkips(t *testing.T) {
	runner := &stubRunner{}
	svc, renderer, _ := newService(domain.ModeSimulate, runner, &stubGate{})

	outcome := svc.RunGuarded(context.Background(), domain.Operation{
		Argv: []string{"timedatectl", "set-ntp", "true"},
		Tier: domain.TierChecked,
	})

	if runner.calls != 0 {
		t.Fatal("guarded op executed in simulate mode")
	}
	if outcome.Status != domain.StatusSuccess {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if !renderer.contains("timedatectl set-ntp true") {
		t.Fatalf("simulate diagnostic missing: %v", renderer.lines)
	}
}

func TestGuardedEscalatedByPolicyDemandsConfirmation(t *testing.T) {
	runner := &stubRunner{}
	gate := &stubGate{answer: false}
	svc, renderer, _ := newService(domain.ModeLive, runner, gate)
	svc.Policy = stubPolicy{decision: domain.PolicyDecision{
		Tier:    domain.TierDangerous,
		Reasons: []string{"creating a filesystem destroys existing data"},
	}}

	outcome := svc.RunGuarded(context.Background(), domain.Operation{
		Argv: []string{"mkfs.ext4", "/dev/sda2"},
		Tier: domain.TierChecked,
	})

	if gate.asked != 1 {
		t.Fatalf("gate asked %d times, want 1", gate.asked)
	}
	if runner.calls != 0 {
		t.Fatal("escalated command ran after declined confirmation")
	}
	if outcome.Status != domain.StatusAborted || !outcome.Fatal {
		t.Fatalf("expected fatal abort, got %+v", outcome)
	}
	if !renderer.contains("creating a filesystem destroys existing data") {
		t.Fatalf("escalation reason not surfaced: %v", renderer.lines)
	}
}

func TestCheckedEscalatedByPolicySimulatesInsteadOfRunning(t *testing.T) {
	runner := &stubRunner{}
	svc, renderer, _ := newService(domain.ModeSimulate, runner, &stubGate{})
	svc.Policy = stubPolicy{decision: domain.PolicyDecision{Tier: domain.TierDangerous}}

	outcome := svc.RunChecked(context.Background(), domain.Operation{
		Argv: []string{"wipefs", "-a", "/dev/sda"},
		Tier: domain.TierSafe,
	})

	if runner.calls != 0 {
		t.Fatal("escalated command executed in simulate mode")
	}
	if outcome.Status != domain.StatusSuccess || outcome.Executed {
		t.Fatalf("expected simulated success, got %+v", outcome)
	}
	if !renderer.contains("wipefs -a /dev/sda") {
		t.Fatalf("diagnostic missing literal command: %v", renderer.lines)
	}
}

func TestRunDispatchEscalatesViaPolicy(t *testing.T) {
	runner := &stubRunner{}
	svc, _, _ := newService(domain.ModeLive, runner, &stubGate{answer: false})
	svc.Policy = stubPolicy{decision: domain.PolicyDecision{
		Tier:    domain.TierDangerous,
		Reasons: []string{"creating a filesystem destroys existing data"},
	}}

	// Call site claims Checked; policy recognizes mkfs and escalates,
	// so the declined gate must stop it.
	outcome := svc.Run(context.Background(), domain.Operation{
		Argv: []string{"mkfs.ext4", "/dev/sda2"},
		Tier: domain.TierChecked,
	})

	if runner.calls != 0 {
		t.Fatal("escalated command ran without confirmation")
	}
	if outcome.Status != domain.StatusAborted {
		t.Fatalf("expected abort, got %+v", outcome)
	}
}

func TestJournalCarriesExecutionMetadata(t *testing.T) {
	runner := &stubRunner{}
	svc, _, journal := newService(domain.ModeLive, runner, &stubGate{answer: true})

	svc.RunDangerous(context.Background(), dangerousOp())

	if len(journal.records) != 1 {
		t.Fatalf("got %d journal records, want 1", len(journal.records))
	}
	rec := journal.records[0]
	if !rec.Executed || !rec.Success || rec.Mode != domain.ModeLive || rec.Stage != domain.StageEncrypt {
		t.Fatalf("journal record incomplete: %+v", rec)
	}
}

type stubRunner struct {
	calls    int
	exitCode int
	err      error
	ops      []domain.Operation
}

func (s *stubRunner) Run(_ context.Context, op domain.Operation) (domain.ExecutionResult, error) {
	s.calls++
	s.ops = append(s.ops, op)
	return domain.ExecutionResult{Ran: true, ExitCode: s.exitCode, Err: s.err}, s.err
}

type stubGate struct {
	answer bool
	err    error
	asked  int
}

func (s *stubGate) Confirm(string) (bool, error) {
	s.asked++
	return s.answer, s.err
}

func (s *stubGate) Enabled() bool { return true }

type stubPolicy struct {
	decision domain.PolicyDecision
	err      error
}

func (s stubPolicy) Classify(string) (domain.PolicyDecision, error) {
	return s.decision, s.err
}

type stubJournal struct {
	records []domain.JournalRecord
}

func (s *stubJournal) Save(record domain.JournalRecord) error {
	s.records = append(s.records, record)
	return nil
}

func (s *stubJournal) Records(int, string) ([]domain.JournalRecord, error) { return s.records, nil }
func (s *stubJournal) Clear() error                                        { return nil }
func (s *stubJournal) ExportJSON(string) error                             { return nil }
func (s *stubJournal) Path() string                                        { return "" }

type stubRenderer struct {
	lines []string
}

func (s *stubRenderer) record(format string, args ...interface{}) {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

func (s *stubRenderer) Info(format string, args ...interface{})    { s.record(format, args...) }
func (s *stubRenderer) Success(format string, args ...interface{}) { s.record(format, args...) }
func (s *stubRenderer) Warn(format string, args ...interface{})    { s.record(format, args...) }
func (s *stubRenderer) Error(format string, args ...interface{})   { s.record(format, args...) }
func (s *stubRenderer) Command(commandLine string)                 { s.record("-> %s", commandLine) }

func (s *stubRenderer) contains(substr string) bool {
	for _, line := range s.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
