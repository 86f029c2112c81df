package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	infralogger "github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/bootstrap"
	"github.com/jonesrussell/es-index-migrator/internal/config"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
	"github.com/jonesrussell/es-index-migrator/internal/mappings"
	"github.com/jonesrussell/es-index-migrator/internal/prompt"
	"github.com/jonesrussell/es-index-migrator/internal/service"
)

// ErrActionRequired is returned by unattended runs without an action.
var ErrActionRequired = errors.New("an action is required in unattended runs (--action or ESMIGRATE_ACTION)")

type runner struct {
	deps   Deps
	v      *viper.Viper
	prompt *prompt.Prompter
}

func newRunner(deps Deps, v *viper.Viper) *runner {
	return &runner{deps: deps, v: v, prompt: prompt.New(deps.In, deps.Err)}
}

func (r *runner) run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig(r.v.GetString(keyConfig), r.v.GetString(keyEnvironment))
	if err != nil {
		return err
	}

	log, err := bootstrap.CreateLogger(cfg, r.v.GetBool(keyDebug))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	unattended := bootstrap.DetectUnattended(r.deps.LookupEnv)
	run := bootstrap.RunContext(cfg, unattended)
	log.Debug("Resolved run context",
		infralogger.Bool("unattended", run.Unattended),
		infralogger.Bool("disposable", run.Disposable),
	)

	if err := r.execute(infralogger.WithContext(ctx, log), cfg, run); err != nil {
		log.Error("Run failed", infralogger.Error(err))
		return err
	}
	return nil
}

func (r *runner) execute(ctx context.Context, cfg *config.Config, run domain.RunContext) error {
	log := infralogger.FromContext(ctx)
	fmt.Fprintf(r.deps.Err, "Environment: %s  Index: %s  Alias: %s  Unattended: %t\n",
		run.Environment, cfg.Index.CanonicalName, cfg.Index.Alias, run.Unattended)

	if !run.Unattended && !r.v.GetBool(keyYes) {
		ok, err := r.prompt.Confirm(ctx, "Do you want to continue?")
		if err != nil {
			return err
		}
		if !ok {
			log.Info("Exiting at operator request")
			return nil
		}
	}

	var asker bootstrap.SecretAsker
	if !run.Unattended {
		asker = r.prompt
	}
	if err := bootstrap.ResolveAPIKey(ctx, cfg, r.v.GetString(keyAPIKey), run, asker); err != nil {
		return err
	}

	action, err := r.resolveAction(ctx, run)
	if err != nil {
		return err
	}
	log = log.With(infralogger.String("action", action.String()))
	if action == domain.ActionNone {
		log.Info("Nothing to do")
		return nil
	}

	var mapping domain.Mapping
	if action == domain.ActionUpdateMapping || action == domain.ActionRestoreAndReindex {
		if mapping, err = mappings.Load(cfg.Index.MappingFile); err != nil {
			return err
		}
	}

	gateway, err := r.deps.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}

	var confirmer service.Confirmer
	if !run.Unattended {
		confirmer = r.prompt
	}
	orchestrator, err := bootstrap.NewOrchestrator(cfg, gateway, run, mapping, confirmer, log)
	if err != nil {
		return err
	}

	return r.dispatch(ctx, action, run, orchestrator)
}

func (r *runner) resolveAction(ctx context.Context, run domain.RunContext) (domain.Action, error) {
	action, err := domain.ParseAction(r.v.GetString(keyAction))
	if err != nil {
		return domain.ActionNotSet, err
	}
	if action != domain.ActionNotSet {
		return action, nil
	}
	if run.Unattended {
		return domain.ActionNotSet, ErrActionRequired
	}
	return r.prompt.ChooseAction(ctx)
}

func (r *runner) dispatch(
	ctx context.Context, action domain.Action, run domain.RunContext, o *service.Orchestrator,
) error {
	switch action {
	case domain.ActionGetMapping:
		m, err := o.GetMapping(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.deps.Out, m.Pretty())
		if path := r.v.GetString(keyOutput); path != "" {
			return mappings.Save(path, m)
		}
		return nil

	case domain.ActionUpdateMapping:
		report, err := o.UpdateMapping(ctx)
		RenderReport(r.deps.Out, report)
		return err

	case domain.ActionCreateSnapshot:
		handle, err := o.CreateSnapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.deps.Out, "Snapshot created: %s\n", handle)
		return nil

	case domain.ActionRestoreAndReindex:
		handle := domain.SnapshotHandle(r.v.GetString(keySnapshot))
		// Refused runs are rejected by the orchestrator before anyone is asked for a name.
		if handle == "" && !run.Unattended && !run.Disposable {
			name, err := r.prompt.Ask(ctx, "Enter the snapshot name to restore")
			if err != nil {
				return err
			}
			handle = domain.SnapshotHandle(name)
		}
		report, err := o.RestoreAndReindex(ctx, handle)
		RenderReport(r.deps.Out, report)
		return err

	default:
		return fmt.Errorf("unsupported action %s", action)
	}
}
