package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

// Workflow names a multi-step operation.
type Workflow string

const (
	WorkflowUpdateMapping    Workflow = "update_mapping"
	WorkflowDisasterRecovery Workflow = "restore_and_reindex"
)

// Step is a state a workflow has reached.
type Step string

const (
	StepStart              Step = "start"
	StepSnapshotted        Step = "snapshotted"
	StepShadowCreated      Step = "shadow_created"
	StepCopiedForward      Step = "copied_forward"
	StepCanonicalDropped   Step = "canonical_dropped"
	StepCanonicalRecreated Step = "canonical_recreated"
	StepCopiedBack         Step = "copied_back"
	StepShadowDropped      Step = "shadow_dropped"
	StepRestored           Step = "restored"
	StepCountCaptured      Step = "count_captured"
	StepReindexed          Step = "reindexed"
	StepRestoredDropped    Step = "restored_dropped"
	StepDone               Step = "done"
)

// UpdateMappingSteps is the mapping update state sequence.
var UpdateMappingSteps = []Step{
	StepStart,
	StepSnapshotted,
	StepShadowCreated,
	StepCopiedForward,
	StepCanonicalDropped,
	StepCanonicalRecreated,
	StepCopiedBack,
	StepShadowDropped,
	StepDone,
}

// DisasterRecoverySteps is the restore-and-reindex state sequence.
var DisasterRecoverySteps = []Step{
	StepStart,
	StepRestored,
	StepCountCaptured,
	StepCanonicalDropped,
	StepCanonicalRecreated,
	StepReindexed,
	StepRestoredDropped,
	StepDone,
}

// StepStatus records how a step ended.
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
)

// StepRecord is one row of a Report.
type StepRecord struct {
	Step     Step
	Status   StepStatus
	Detail   string
	Duration time.Duration
}

// Report is the history of one workflow run.
type Report struct {
	RunID         string
	Workflow      Workflow
	Canonical     string
	Shadow        string
	RestoredIndex string
	Snapshot      domain.SnapshotHandle
	ExpectedCount int64
	StartedAt     time.Time
	FinishedAt    time.Time
	Steps         []StepRecord
}

// LastCompleted returns the last step that completed or was skipped.
func (r *Report) LastCompleted() Step {
	for i := len(r.Steps) - 1; i >= 0; i-- {
		if r.Steps[i].Status != StepFailed {
			return r.Steps[i].Step
		}
	}
	return StepStart
}

// Done reports whether the workflow reached StepDone.
func (r *Report) Done() bool {
	return r.LastCompleted() == StepDone
}

// WorkflowError stops a workflow. Nothing completed before Failed is undone;
// Completed tells the operator where the cluster was left.
type WorkflowError struct {
	Workflow  Workflow
	Completed Step
	Failed    Step
	Err       error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s failed reaching %s (last completed step: %s): %v",
		e.Workflow, e.Failed, e.Completed, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// runner executes steps in order and records them in a report.
type runner struct {
	report *Report
	logger logger.Logger
	now    func() time.Time
}

func newRunner(report *Report, log logger.Logger, now func() time.Time) *runner {
	report.StartedAt = now()
	report.Steps = append(report.Steps, StepRecord{Step: StepStart, Status: StepCompleted})
	log.Info("Workflow started")
	return &runner{report: report, logger: log, now: now}
}

// do runs fn as the transition into step. fn returns a short detail for the report.
func (r *runner) do(ctx context.Context, step Step, fn func(context.Context) (string, error)) error {
	started := r.now()
	detail, err := fn(ctx)
	elapsed := r.now().Sub(started)

	if err != nil {
		completed := r.report.LastCompleted()
		r.report.Steps = append(r.report.Steps, StepRecord{
			Step: step, Status: StepFailed, Detail: err.Error(), Duration: elapsed,
		})
		r.report.FinishedAt = r.now()
		r.logger.Error("Workflow step failed",
			logger.String("step", string(step)),
			logger.String("last_completed", string(completed)),
			logger.Error(err),
		)
		return &WorkflowError{Workflow: r.report.Workflow, Completed: completed, Failed: step, Err: err}
	}

	r.report.Steps = append(r.report.Steps, StepRecord{
		Step: step, Status: StepCompleted, Detail: detail, Duration: elapsed,
	})
	r.logger.Info("Workflow step completed",
		logger.String("step", string(step)),
		logger.String("detail", detail),
		logger.Duration("duration", elapsed),
	)
	return nil
}

func (r *runner) skip(step Step, reason string) {
	r.report.Steps = append(r.report.Steps, StepRecord{Step: step, Status: StepSkipped, Detail: reason})
	r.logger.Info("Workflow step skipped", logger.String("step", string(step)), logger.String("reason", reason))
}

func (r *runner) finish() {
	r.report.Steps = append(r.report.Steps, StepRecord{Step: StepDone, Status: StepCompleted})
	r.report.FinishedAt = r.now()
	r.logger.Info("Workflow done", logger.Duration("duration", r.report.FinishedAt.Sub(r.report.StartedAt)))
}

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
