package bootstrap

import (
	"context"

	infraes "github.com/jonesrussell/es-index-migrator/infrastructure/elasticsearch"
	infraerrors "github.com/jonesrussell/es-index-migrator/infrastructure/errors"
	infralogger "github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/config"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
	"github.com/jonesrussell/es-index-migrator/internal/elasticsearch"
	"github.com/jonesrussell/es-index-migrator/internal/service"
)

// SetupElasticsearch connects to the cluster and returns the gateway.
func SetupElasticsearch(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*elasticsearch.Client, error) {
	esConfig := infraes.Config{
		URL:         cfg.Elasticsearch.URL,
		CloudID:     cfg.Elasticsearch.CloudID,
		APIKey:      cfg.Elasticsearch.APIKey,
		Username:    cfg.Elasticsearch.Username,
		Password:    cfg.Elasticsearch.Password,
		MaxRetries:  cfg.Elasticsearch.MaxRetries,
		PingTimeout: cfg.Elasticsearch.Timeout,
	}
	if cfg.Elasticsearch.InsecureSkipVerify || cfg.Elasticsearch.CAFile != "" {
		esConfig.TLS = &infraes.TLSConfig{
			Enabled:            true,
			InsecureSkipVerify: cfg.Elasticsearch.InsecureSkipVerify,
			CAFile:             cfg.Elasticsearch.CAFile,
		}
	}

	esClient, err := infraes.NewClient(ctx, esConfig, log)
	if err != nil {
		return nil, infraerrors.WrapWithContext(err, "elasticsearch client")
	}

	return elasticsearch.NewClient(esClient, elasticsearch.Options{
		SnapshotRepository: cfg.Elasticsearch.SnapshotRepository,
		RenamePattern:      cfg.Elasticsearch.RenamePattern,
		RenameReplacement:  cfg.Elasticsearch.RenameReplacement,
		RequestTimeout:     cfg.Elasticsearch.RequestTimeout,
	}, log), nil
}

// NewOrchestrator builds the orchestrator for one run. mapping may be empty
// for actions that never create an index.
func NewOrchestrator(
	cfg *config.Config,
	gateway service.Gateway,
	run domain.RunContext,
	mapping domain.Mapping,
	confirmer service.Confirmer,
	log infralogger.Logger,
) (*service.Orchestrator, error) {
	return service.NewOrchestrator(gateway, service.Options{
		Run:              run,
		CanonicalIndex:   cfg.Index.CanonicalName,
		ShadowIndex:      cfg.Index.ShadowName,
		Alias:            cfg.Index.Alias,
		CanonicalMapping: mapping,
		Verify: service.VerifyPolicy{
			MaxAttempts: cfg.Verify.MaxAttempts,
			Interval:    cfg.Verify.Interval,
		},
		Confirmer: confirmer,
	}, log)
}
