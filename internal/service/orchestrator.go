package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

// Confirmer asks the operator to approve a destructive step.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

// Options is everything the orchestrator needs to know about a run. It is
// resolved once at startup; the orchestrator never reads the environment.
type Options struct {
	Run domain.RunContext

	CanonicalIndex string
	ShadowIndex    string
	Alias          string
	// CanonicalMapping is the mapping the canonical index is (re)created with.
	CanonicalMapping domain.Mapping

	Verify   VerifyPolicy
	Metadata domain.SnapshotMetadata

	// Confirmer approves restore-and-reindex. Required for attended runs.
	Confirmer Confirmer

	Clock    func() time.Time
	NewRunID func() string
}

func (o *Options) setDefaults() {
	if o.Verify.MaxAttempts <= 0 {
		o.Verify.MaxAttempts = DefaultVerifyAttempts
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.NewRunID == nil {
		o.NewRunID = uuid.NewString
	}
}

func (o *Options) validate() error {
	var problems []string
	if o.CanonicalIndex == "" {
		problems = append(problems, "canonical index name is required")
	}
	if o.ShadowIndex == "" {
		problems = append(problems, "shadow index name is required")
	}
	if o.CanonicalIndex != "" && o.CanonicalIndex == o.ShadowIndex {
		problems = append(problems, "canonical and shadow index names must differ")
	}
	if o.Alias == "" {
		problems = append(problems, "alias is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid orchestrator options: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Orchestrator sequences the coordinators into the mapping update and
// disaster recovery workflows.
type Orchestrator struct {
	opts      Options
	gateway   Gateway
	lifecycle *IndexLifecycleManager
	reindexer *ReindexCoordinator
	snapshots *SnapshotCoordinator
	logger    logger.Logger
}

// NewOrchestrator wires the coordinators around gateway.
func NewOrchestrator(gateway Gateway, opts Options, log logger.Logger) (*Orchestrator, error) {
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	verifier := NewDocumentCountVerifier(gateway, opts.Verify, log)

	return &Orchestrator{
		opts:      opts,
		gateway:   gateway,
		lifecycle: NewIndexLifecycleManager(gateway, log),
		reindexer: NewReindexCoordinator(gateway, verifier, log),
		snapshots: NewSnapshotCoordinator(gateway, opts.Metadata, opts.Clock, log),
		logger:    log,
	}, nil
}

// GetMapping returns the live mapping of the canonical index. Read only.
func (o *Orchestrator) GetMapping(ctx context.Context) (domain.Mapping, error) {
	m, err := o.gateway.GetMapping(ctx, o.opts.CanonicalIndex)
	if err != nil {
		return domain.Mapping{}, err
	}
	o.logger.Info("Fetched index mapping", logger.String("index", o.opts.CanonicalIndex))
	return m, nil
}

// CreateSnapshot takes a standalone snapshot of the canonical index. It is
// refused for unattended runs and disposable environments.
func (o *Orchestrator) CreateSnapshot(ctx context.Context) (domain.SnapshotHandle, error) {
	if err := o.guardProtectedAction(domain.ActionCreateSnapshot); err != nil {
		return "", err
	}
	return o.snapshots.CreateSnapshot(ctx, o.opts.CanonicalIndex)
}

// UpdateMapping recreates the canonical index with CanonicalMapping by
// copying its documents through the shadow index and back.
//
// A failure stops the workflow where it is. Completed steps are not undone:
// after a failure past canonical_dropped the data lives only in the shadow
// index.
func (o *Orchestrator) UpdateMapping(ctx context.Context) (*Report, error) {
	if o.opts.CanonicalMapping.IsZero() {
		return nil, &domain.PreconditionError{
			Action: domain.ActionUpdateMapping.String(),
			Reason: "canonical mapping is empty",
		}
	}

	canonical, shadow := o.opts.CanonicalIndex, o.opts.ShadowIndex
	report := &Report{
		RunID:     o.opts.NewRunID(),
		Workflow:  WorkflowUpdateMapping,
		Canonical: canonical,
		Shadow:    shadow,
	}
	log := o.logger.With(
		logger.String("run_id", report.RunID),
		logger.String("workflow", string(report.Workflow)),
		logger.String("canonical", canonical),
		logger.String("shadow", shadow),
	)
	run := newRunner(report, log, o.opts.Clock)

	if o.opts.Run.Disposable {
		run.skip(StepSnapshotted, "disposable environment")
	} else if err := run.do(ctx, StepSnapshotted, func(ctx context.Context) (string, error) {
		handle, err := o.snapshots.CreateSnapshot(ctx, canonical)
		report.Snapshot = handle
		return handle.String(), err
	}); err != nil {
		return report, err
	}

	shadowMapping := DeriveShadowMapping(o.opts.CanonicalMapping, o.opts.Alias)

	steps := []struct {
		step Step
		fn   func(context.Context) (string, error)
	}{
		{StepShadowCreated, func(ctx context.Context) (string, error) {
			expected, err := o.gateway.CountDocuments(ctx, canonical)
			if err != nil {
				return "", fmt.Errorf("capture document count: %w", err)
			}
			report.ExpectedCount = expected
			log.Info("Captured document count", logger.Int64("expected", expected))

			if err := o.lifecycle.CreateIndex(ctx, shadow, shadowMapping); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s created, %d documents expected", shadow, expected), nil
		}},
		{StepCopiedForward, o.copyStep(canonical, shadow, report)},
		{StepCanonicalDropped, o.deleteStep(canonical)},
		{StepCanonicalRecreated, o.createStep(canonical, o.opts.CanonicalMapping)},
		{StepCopiedBack, o.copyStep(shadow, canonical, report)},
		{StepShadowDropped, o.deleteStep(shadow)},
	}

	for _, s := range steps {
		if err := run.do(ctx, s.step, s.fn); err != nil {
			return report, err
		}
	}

	run.finish()
	return report, nil
}

// RestoreAndReindex replaces the canonical index with the contents of the
// snapshot handle. It is refused, before any cluster call, for unattended
// runs, disposable environments, an empty handle or a declined confirmation.
func (o *Orchestrator) RestoreAndReindex(ctx context.Context, handle domain.SnapshotHandle) (*Report, error) {
	action := domain.ActionRestoreAndReindex.String()
	if err := o.guardProtectedAction(domain.ActionRestoreAndReindex); err != nil {
		return nil, err
	}
	handle = domain.SnapshotHandle(strings.ToLower(strings.TrimSpace(handle.String())))
	if handle == "" {
		return nil, &domain.PreconditionError{Action: action, Reason: "snapshot name is required"}
	}
	if o.opts.CanonicalMapping.IsZero() {
		return nil, &domain.PreconditionError{Action: action, Reason: "canonical mapping is empty"}
	}
	if err := o.confirm(ctx, fmt.Sprintf(
		"Index %s will be deleted and rebuilt from snapshot %s. Continue?", o.opts.CanonicalIndex, handle,
	)); err != nil {
		return nil, err
	}

	canonical := o.opts.CanonicalIndex
	report := &Report{
		RunID:     o.opts.NewRunID(),
		Workflow:  WorkflowDisasterRecovery,
		Canonical: canonical,
		Snapshot:  handle,
	}
	log := o.logger.With(
		logger.String("run_id", report.RunID),
		logger.String("workflow", string(report.Workflow)),
		logger.String("canonical", canonical),
		logger.String("snapshot", handle.String()),
	)
	run := newRunner(report, log, o.opts.Clock)

	if err := run.do(ctx, StepRestored, func(ctx context.Context) (string, error) {
		result, err := o.snapshots.RestoreSnapshot(ctx, canonical, handle)
		if err != nil {
			return "", err
		}
		report.RestoredIndex = result.RestoredIndex
		return "restored as " + result.RestoredIndex, nil
	}); err != nil {
		return report, err
	}

	restored := report.RestoredIndex

	steps := []struct {
		step Step
		fn   func(context.Context) (string, error)
	}{
		{StepCountCaptured, func(ctx context.Context) (string, error) {
			expected, err := o.gateway.CountDocuments(ctx, restored)
			if err != nil {
				return "", err
			}
			report.ExpectedCount = expected
			return fmt.Sprintf("%d documents in %s", expected, restored), nil
		}},
		{StepCanonicalDropped, o.deleteStep(canonical)},
		{StepCanonicalRecreated, o.createStep(canonical, o.opts.CanonicalMapping)},
		{StepReindexed, o.copyStep(restored, canonical, report)},
		{StepRestoredDropped, o.deleteStep(restored)},
	}

	for _, s := range steps {
		if err := run.do(ctx, s.step, s.fn); err != nil {
			return report, err
		}
	}

	run.finish()
	return report, nil
}

func (o *Orchestrator) guardProtectedAction(action domain.Action) error {
	switch {
	case o.opts.Run.Unattended:
		return &domain.PreconditionError{Action: action.String(), Reason: "not allowed in unattended (CI) runs"}
	case o.opts.Run.Disposable:
		return &domain.PreconditionError{
			Action: action.String(),
			Reason: fmt.Sprintf("not allowed against a local environment (%s)", o.opts.Run.Environment),
		}
	default:
		return nil
	}
}

func (o *Orchestrator) confirm(ctx context.Context, question string) error {
	action := domain.ActionRestoreAndReindex.String()
	if o.opts.Confirmer == nil {
		return &domain.PreconditionError{Action: action, Reason: "confirmation required but no prompt is available"}
	}

	ok, err := o.opts.Confirmer.Confirm(ctx, question)
	if err != nil {
		return errors.Join(&domain.PreconditionError{Action: action, Reason: "confirmation failed"}, err)
	}
	if !ok {
		return &domain.PreconditionError{Action: action, Reason: "declined by operator"}
	}
	return nil
}

func (o *Orchestrator) copyStep(source, dest string, report *Report) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		n, err := o.reindexer.Reindex(ctx, source, dest, report.ExpectedCount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d documents %s -> %s", n, source, dest), nil
	}
}

func (o *Orchestrator) deleteStep(index string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if err := o.lifecycle.DeleteIndex(ctx, index); err != nil {
			return "", err
		}
		return index + " deleted", nil
	}
}

func (o *Orchestrator) createStep(index string, mapping domain.Mapping) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if err := o.lifecycle.CreateIndex(ctx, index, mapping); err != nil {
			return "", err
		}
		return index + " created", nil
	}
}
