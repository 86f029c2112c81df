package service

import (
	"context"
	"fmt"

	"github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

// ReindexCoordinator copies an index server side and confirms the copy.
type ReindexCoordinator struct {
	gateway  Gateway
	verifier *DocumentCountVerifier
	logger   logger.Logger
}

// NewReindexCoordinator creates a reindex coordinator.
func NewReindexCoordinator(gateway Gateway, verifier *DocumentCountVerifier, log logger.Logger) *ReindexCoordinator {
	return &ReindexCoordinator{gateway: gateway, verifier: verifier, logger: log}
}

// Reindex copies source into dest. A response total other than expected
// fails immediately; otherwise dest is polled until it shows expected
// documents. Returns the verified count.
func (r *ReindexCoordinator) Reindex(ctx context.Context, source, dest string, expected int64) (int64, error) {
	log := r.logger.With(logger.String("source", source), logger.String("dest", dest))
	log.Info("Starting reindex", logger.Int64("expected", expected))

	result, err := r.gateway.Reindex(ctx, source, dest)
	if err != nil {
		return 0, err
	}

	if result.Total != expected {
		return 0, &domain.ConsistencyError{Index: dest, Expected: expected, Actual: result.Total}
	}
	if len(result.Failures) > 0 {
		log.Warn("Reindex reported failures", logger.Int("failures", len(result.Failures)))
	}

	verified, err := r.verifier.Verify(ctx, dest, expected)
	if err != nil {
		return 0, fmt.Errorf("reindex %s to %s: %w", source, dest, err)
	}

	log.Info("Reindex completed",
		logger.Int64("total", result.Total),
		logger.Int64("created", result.Created),
		logger.Int64("updated", result.Updated),
		logger.Duration("took", msDuration(result.Took)),
	)
	return verified, nil
}
