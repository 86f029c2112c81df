package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

var errNoRestoredIndex = errors.New("restore response lists no restored indices")

// SnapshotCoordinator takes and restores snapshots of a single index.
type SnapshotCoordinator struct {
	gateway  Gateway
	metadata domain.SnapshotMetadata
	now      func() time.Time
	logger   logger.Logger
}

// NewSnapshotCoordinator creates a snapshot coordinator. A nil clock uses time.Now.
func NewSnapshotCoordinator(
	gateway Gateway, metadata domain.SnapshotMetadata, clock func() time.Time, log logger.Logger,
) *SnapshotCoordinator {
	if clock == nil {
		clock = time.Now
	}
	if metadata == (domain.SnapshotMetadata{}) {
		metadata = domain.DefaultSnapshotMetadata()
	}
	return &SnapshotCoordinator{gateway: gateway, metadata: metadata, now: clock, logger: log}
}

// CreateSnapshot snapshots index under a new timestamped handle and waits
// until the snapshot completes.
func (s *SnapshotCoordinator) CreateSnapshot(ctx context.Context, index string) (domain.SnapshotHandle, error) {
	handle := domain.NewSnapshotHandle(s.now())

	if err := s.gateway.CreateSnapshot(ctx, index, handle, s.metadata); err != nil {
		return "", fmt.Errorf("snapshot %s: %w", handle, err)
	}

	s.logger.Info("Snapshot created", logger.String("snapshot", handle.String()), logger.String("index", index))
	return handle, nil
}

// RestoreSnapshot restores index from handle and resolves the renamed index
// the cluster created for it.
func (s *SnapshotCoordinator) RestoreSnapshot(
	ctx context.Context, index string, handle domain.SnapshotHandle,
) (domain.RestoreResult, error) {
	resp, err := s.gateway.RestoreSnapshot(ctx, index, handle)
	if err != nil {
		return domain.RestoreResult{}, fmt.Errorf("restore %s: %w", handle, err)
	}

	if resp == nil || resp.Snapshot == nil || len(resp.Snapshot.Indices) == 0 || resp.Snapshot.Indices[0] == "" {
		return domain.RestoreResult{}, &domain.DecodeError{Op: "restore snapshot", Index: index, Err: errNoRestoredIndex}
	}

	restored := resp.Snapshot.Indices[0]
	s.logger.Info("Snapshot restored",
		logger.String("snapshot", handle.String()),
		logger.String("index", index),
		logger.String("restored_index", restored),
	)
	return domain.RestoreResult{Snapshot: handle, RestoredIndex: restored}, nil
}
