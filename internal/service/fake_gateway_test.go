package service_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

// fakeIndex is an index held by fakeGateway.
type fakeIndex struct {
	mapping domain.Mapping
	docs    int64
}

type fakeSnapshot struct {
	index   string
	mapping domain.Mapping
	docs    int64
	meta    domain.SnapshotMetadata
}

// fakeGateway is an in-memory cluster. Reindexed documents become visible to
// CountDocuments only after lag further count calls on the destination.
type fakeGateway struct {
	mu        sync.Mutex
	indices   map[string]*fakeIndex
	snapshots map[domain.SnapshotHandle]fakeSnapshot
	pending   map[string]int
	lag       int
	// restoreName maps the restored index name; defaults to restored-<index>.
	restoreName func(index string) string
	// failOn makes the named call fail with a transport error, keyed "op index".
	failOn map[string]bool
	calls  []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		indices:   map[string]*fakeIndex{},
		snapshots: map[domain.SnapshotHandle]fakeSnapshot{},
		pending:   map[string]int{},
		failOn:    map[string]bool{},
	}
}

func (f *fakeGateway) seed(name string, mapping domain.Mapping, docs int64) {
	f.indices[name] = &fakeIndex{mapping: mapping, docs: docs}
}

func (f *fakeGateway) record(op, index string) error {
	key := op + " " + index
	f.calls = append(f.calls, key)
	if f.failOn[key] {
		return &domain.TransportError{Op: op, Index: index, StatusCode: http.StatusInternalServerError, Body: "injected"}
	}
	return nil
}

func (f *fakeGateway) notFound(op, index string) error {
	return &domain.TransportError{
		Op: op, Index: index, StatusCode: http.StatusNotFound,
		Reason: fmt.Sprintf("no such index [%s]", index),
	}
}

func (f *fakeGateway) GetMapping(_ context.Context, index string) (domain.Mapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("get_mapping", index); err != nil {
		return domain.Mapping{}, err
	}
	idx, ok := f.indices[index]
	if !ok {
		return domain.Mapping{}, f.notFound("get mapping", index)
	}
	return idx.mapping, nil
}

func (f *fakeGateway) CreateIndex(_ context.Context, index string, mapping domain.Mapping) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("create", index); err != nil {
		return err
	}
	if _, exists := f.indices[index]; exists {
		return &domain.TransportError{
			Op: "create index", Index: index, StatusCode: http.StatusBadRequest,
			Reason: fmt.Sprintf("index [%s] already exists", index),
		}
	}
	f.indices[index] = &fakeIndex{mapping: mapping}
	return nil
}

func (f *fakeGateway) DeleteIndex(_ context.Context, index string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("delete", index); err != nil {
		return err
	}
	if _, exists := f.indices[index]; !exists {
		return f.notFound("delete index", index)
	}
	delete(f.indices, index)
	delete(f.pending, index)
	return nil
}

func (f *fakeGateway) CountDocuments(_ context.Context, index string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("count", index); err != nil {
		return 0, err
	}
	idx, ok := f.indices[index]
	if !ok {
		return 0, f.notFound("count documents", index)
	}
	if f.pending[index] > 0 {
		f.pending[index]--
		return 0, nil
	}
	return idx.docs, nil
}

func (f *fakeGateway) Reindex(_ context.Context, source, dest string) (*domain.ReindexResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("reindex", source+"->"+dest); err != nil {
		return nil, err
	}
	src, ok := f.indices[source]
	if !ok {
		return nil, f.notFound("reindex", source)
	}
	dst, ok := f.indices[dest]
	if !ok {
		// Elasticsearch would auto-create dest; the workflows never rely on it.
		return nil, f.notFound("reindex", dest)
	}
	dst.docs = src.docs
	f.pending[dest] = f.lag
	return &domain.ReindexResult{Total: src.docs, Created: src.docs, Batches: 1}, nil
}

func (f *fakeGateway) CreateSnapshot(
	_ context.Context, index string, handle domain.SnapshotHandle, meta domain.SnapshotMetadata,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("snapshot", index); err != nil {
		return err
	}
	idx, ok := f.indices[index]
	if !ok {
		return f.notFound("create snapshot", index)
	}
	if _, exists := f.snapshots[handle]; exists {
		return &domain.TransportError{Op: "create snapshot", Index: index, StatusCode: http.StatusBadRequest,
			Reason: "snapshot with the same name already exists"}
	}
	f.snapshots[handle] = fakeSnapshot{index: index, mapping: idx.mapping, docs: idx.docs, meta: meta}
	return nil
}

func (f *fakeGateway) RestoreSnapshot(
	_ context.Context, index string, handle domain.SnapshotHandle,
) (*domain.RestoreResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("restore", index); err != nil {
		return nil, err
	}
	snap, ok := f.snapshots[handle]
	if !ok || snap.index != index {
		return nil, &domain.TransportError{Op: "restore snapshot", Index: index, StatusCode: http.StatusNotFound,
			Reason: fmt.Sprintf("snapshot [%s] is missing", handle)}
	}

	name := domain.RestoredIndexPrefix + index
	if f.restoreName != nil {
		name = f.restoreName(index)
	}
	f.indices[name] = &fakeIndex{mapping: snap.mapping, docs: snap.docs}

	return &domain.RestoreResponse{Snapshot: &domain.RestoredSnapshot{
		Snapshot: handle.String(),
		Indices:  []string{name},
		Shards:   domain.ShardsSummary{Total: 1, Successful: 1},
	}}, nil
}

func (f *fakeGateway) exists(index string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.indices[index]
	return ok
}

func (f *fakeGateway) index(index string) *fakeIndex {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indices[index]
}
