// Package service implements the index migration workflows and the
// coordinators they are built from.
package service

import (
	"context"

	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks . Gateway

// Gateway is the cluster capability the workflows consume. Every failure is
// a *domain.TransportError or *domain.DecodeError.
type Gateway interface {
	GetMapping(ctx context.Context, index string) (domain.Mapping, error)
	CreateIndex(ctx context.Context, index string, mapping domain.Mapping) error
	DeleteIndex(ctx context.Context, index string) error
	CountDocuments(ctx context.Context, index string) (int64, error)
	Reindex(ctx context.Context, source, dest string) (*domain.ReindexResult, error)
	CreateSnapshot(ctx context.Context, index string, handle domain.SnapshotHandle, meta domain.SnapshotMetadata) error
	RestoreSnapshot(ctx context.Context, index string, handle domain.SnapshotHandle) (*domain.RestoreResponse, error)
}
