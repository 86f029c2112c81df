package service

import (
	"context"

	"github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

// IndexLifecycleManager creates and deletes indices.
type IndexLifecycleManager struct {
	gateway Gateway
	logger  logger.Logger
}

// NewIndexLifecycleManager creates a lifecycle manager.
func NewIndexLifecycleManager(gateway Gateway, log logger.Logger) *IndexLifecycleManager {
	return &IndexLifecycleManager{gateway: gateway, logger: log}
}

// CreateIndex creates name from mapping. It is not idempotent: an existing
// index makes the call fail with the cluster's error.
func (m *IndexLifecycleManager) CreateIndex(ctx context.Context, name string, mapping domain.Mapping) error {
	if err := m.gateway.CreateIndex(ctx, name, mapping); err != nil {
		return err
	}
	m.logger.Info("Index created", logger.String("index", name), logger.Strings("aliases", mapping.Aliases()))
	return nil
}

// DeleteIndex deletes name. Deleting a missing index fails.
func (m *IndexLifecycleManager) DeleteIndex(ctx context.Context, name string) error {
	if err := m.gateway.DeleteIndex(ctx, name); err != nil {
		return err
	}
	m.logger.Info("Index deleted", logger.String("index", name))
	return nil
}

// DeriveShadowMapping returns canonical with alias replaced by
// alias+ShadowAliasSuffix, so the shadow index never answers to the
// canonical alias. canonical is not modified.
func DeriveShadowMapping(canonical domain.Mapping, alias string) domain.Mapping {
	return canonical.
		WithoutAlias(alias).
		WithAlias(alias + domain.ShadowAliasSuffix)
}
