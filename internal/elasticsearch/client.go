// Package elasticsearch implements the cluster gateway used by the migration
// workflows on top of go-elasticsearch.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	infraerrors "github.com/jonesrussell/es-index-migrator/infrastructure/errors"
	infralogger "github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

// Options configures gateway behaviour that is not part of the connection.
type Options struct {
	// SnapshotRepository is the registered repository snapshots go to.
	SnapshotRepository string
	// RenamePattern and RenameReplacement rename indices on restore so they
	// never collide with the live index.
	RenamePattern     string
	RenameReplacement string
	// RequestTimeout bounds every call. Zero disables the bound.
	RequestTimeout time.Duration
}

func (o *Options) setDefaults() {
	if o.SnapshotRepository == "" {
		o.SnapshotRepository = domain.DefaultSnapshotRepository
	}
	if o.RenamePattern == "" {
		o.RenamePattern = domain.DefaultRenamePattern
	}
	if o.RenameReplacement == "" {
		o.RenameReplacement = domain.DefaultRenameReplacement
	}
}

// Client executes index, count, reindex and snapshot operations.
type Client struct {
	esClient *es.Client
	opts     Options
	logger   infralogger.Logger
}

// NewClient wraps an already verified go-elasticsearch client.
func NewClient(esClient *es.Client, opts Options, logger infralogger.Logger) *Client {
	opts.setDefaults()
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &Client{
		esClient: esClient,
		opts:     opts,
		logger:   logger,
	}
}

// SnapshotRepository returns the configured repository name.
func (c *Client) SnapshotRepository() string {
	return c.opts.SnapshotRepository
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.opts.RequestTimeout)
}

// GetMapping returns {"mappings": ...} for index. When index is an alias the
// single concrete index behind it is used.
func (c *Client) GetMapping(ctx context.Context, index string) (domain.Mapping, error) {
	const op = "get mapping"

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.esClient.Indices.GetMapping(
		c.esClient.Indices.GetMapping.WithIndex(index),
		c.esClient.Indices.GetMapping.WithContext(ctx),
	)
	if err != nil {
		return domain.Mapping{}, &domain.TransportError{Op: op, Index: index, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return domain.Mapping{}, responseError(op, index, res)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.Mapping{}, &domain.TransportError{Op: op, Index: index, StatusCode: res.StatusCode, Err: err}
	}

	var byIndex map[string]json.RawMessage
	if err := json.Unmarshal(body, &byIndex); err != nil {
		return domain.Mapping{}, &domain.DecodeError{Op: op, Index: index, Body: string(body), Err: err}
	}

	raw, ok := byIndex[index]
	if !ok && len(byIndex) == 1 {
		for _, only := range byIndex {
			raw = only
		}
		ok = true
	}
	if !ok {
		return domain.Mapping{}, &domain.DecodeError{
			Op: op, Index: index, Body: string(body),
			Err: fmt.Errorf("response has %d indices and none named %s", len(byIndex), index),
		}
	}

	mapping, err := domain.ParseMapping(raw)
	if err != nil {
		return domain.Mapping{}, &domain.DecodeError{Op: op, Index: index, Body: string(raw), Err: err}
	}

	return mapping, nil
}

// CreateIndex creates index with mapping as the request body. Creating an
// index that already exists fails with the cluster's response.
func (c *Client) CreateIndex(ctx context.Context, index string, mapping domain.Mapping) error {
	const op = "create index"

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("marshal mapping for %s: %w", index, err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.esClient.Indices.Create(
		index,
		c.esClient.Indices.Create.WithBody(bytes.NewReader(body)),
		c.esClient.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return &domain.TransportError{Op: op, Index: index, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(op, index, res)
	}

	c.logger.Debug("Index created", infralogger.String("index", index))
	return nil
}

// DeleteIndex deletes index. A missing index is an error.
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	const op = "delete index"

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.esClient.Indices.Delete(
		[]string{index},
		c.esClient.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return &domain.TransportError{Op: op, Index: index, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(op, index, res)
	}

	c.logger.Debug("Index deleted", infralogger.String("index", index))
	return nil
}

// CountDocuments returns the _count of index.
func (c *Client) CountDocuments(ctx context.Context, index string) (int64, error) {
	const op = "count documents"

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.esClient.Count(
		c.esClient.Count.WithIndex(index),
		c.esClient.Count.WithContext(ctx),
	)
	if err != nil {
		return 0, &domain.TransportError{Op: op, Index: index, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, responseError(op, index, res)
	}

	var countResp struct {
		Count *int64 `json:"count"`
	}
	if err := decode(res.Body, &countResp); err != nil {
		return 0, &domain.DecodeError{Op: op, Index: index, Err: err}
	}
	if countResp.Count == nil {
		return 0, &domain.DecodeError{Op: op, Index: index, Err: fmt.Errorf("response has no count")}
	}

	return *countResp.Count, nil
}

type reindexRequest struct {
	Source struct {
		Index string `json:"index"`
	} `json:"source"`
	Dest struct {
		Index string `json:"index"`
	} `json:"dest"`
}

// Reindex copies every document of source into dest and waits for completion.
func (c *Client) Reindex(ctx context.Context, source, dest string) (*domain.ReindexResult, error) {
	const op = "reindex"
	target := source + " -> " + dest

	var req reindexRequest
	req.Source.Index = source
	req.Dest.Index = dest
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal reindex request: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.esClient.Reindex(
		bytes.NewReader(body),
		c.esClient.Reindex.WithWaitForCompletion(true),
		c.esClient.Reindex.WithContext(ctx),
	)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Index: target, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(op, target, res)
	}

	var result domain.ReindexResult
	if err := decode(res.Body, &result); err != nil {
		return nil, &domain.DecodeError{Op: op, Index: target, Err: err}
	}

	return &result, nil
}

type createSnapshotRequest struct {
	Indices  string                  `json:"indices"`
	Metadata domain.SnapshotMetadata `json:"metadata"`
}

// CreateSnapshot snapshots index into the configured repository and waits
// for the snapshot to finish.
func (c *Client) CreateSnapshot(
	ctx context.Context, index string, handle domain.SnapshotHandle, meta domain.SnapshotMetadata,
) error {
	const op = "create snapshot"

	body, err := json.Marshal(createSnapshotRequest{Indices: index, Metadata: meta})
	if err != nil {
		return fmt.Errorf("marshal snapshot request: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.esClient.Snapshot.Create(
		c.opts.SnapshotRepository,
		handle.String(),
		c.esClient.Snapshot.Create.WithBody(bytes.NewReader(body)),
		c.esClient.Snapshot.Create.WithWaitForCompletion(true),
		c.esClient.Snapshot.Create.WithContext(ctx),
	)
	if err != nil {
		return &domain.TransportError{Op: op, Index: index, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(op, index, res)
	}

	body, err = io.ReadAll(res.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Index: index, StatusCode: res.StatusCode, Err: err}
	}
	var created domain.CreateSnapshotResponse
	if err := decode(bytes.NewReader(body), &created); err != nil {
		return &domain.DecodeError{Op: op, Index: index, Body: string(body), Err: err}
	}
	if created.Snapshot == nil {
		return &domain.DecodeError{Op: op, Index: index, Body: string(body), Err: errors.New("response has no snapshot")}
	}
	if state := created.Snapshot.State; state != domain.SnapshotStateSuccess {
		shards := created.Snapshot.Shards
		return &domain.TransportError{
			Op:         op,
			Index:      index,
			StatusCode: res.StatusCode,
			Reason:     fmt.Sprintf("snapshot %s finished in state %s (%d of %d shards failed)", handle, state, shards.Failed, shards.Total),
			Body:       string(body),
		}
	}

	c.logger.Debug("Snapshot created",
		infralogger.String("repository", c.opts.SnapshotRepository),
		infralogger.String("snapshot", handle.String()),
		infralogger.String("index", index),
	)
	return nil
}

type restoreSnapshotRequest struct {
	Indices           string `json:"indices"`
	IncludeAliases    bool   `json:"include_aliases"`
	RenamePattern     string `json:"rename_pattern"`
	RenameReplacement string `json:"rename_replacement"`
}

// RestoreSnapshot restores index from handle under a renamed index and waits
// for completion.
func (c *Client) RestoreSnapshot(
	ctx context.Context, index string, handle domain.SnapshotHandle,
) (*domain.RestoreResponse, error) {
	const op = "restore snapshot"

	body, err := json.Marshal(restoreSnapshotRequest{
		Indices:           index,
		RenamePattern:     c.opts.RenamePattern,
		RenameReplacement: c.opts.RenameReplacement,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal restore request: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.esClient.Snapshot.Restore(
		c.opts.SnapshotRepository,
		handle.String(),
		c.esClient.Snapshot.Restore.WithBody(bytes.NewReader(body)),
		c.esClient.Snapshot.Restore.WithWaitForCompletion(true),
		c.esClient.Snapshot.Restore.WithContext(ctx),
	)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Index: index, Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(op, index, res)
	}

	var restore domain.RestoreResponse
	if err := decode(res.Body, &restore); err != nil {
		return nil, &domain.DecodeError{Op: op, Index: index, Err: err}
	}

	return &restore, nil
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func responseError(op, index string, res *esapi.Response) error {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Index: index, StatusCode: res.StatusCode, Err: err}
	}

	httpErr := infraerrors.NewHTTPError(res.StatusCode, body)
	return &domain.TransportError{
		Op:         op,
		Index:      index,
		StatusCode: res.StatusCode,
		Reason:     httpErr.Message,
		Body:       string(body),
		Err:        httpErr,
	}
}
