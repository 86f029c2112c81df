package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
	"github.com/jonesrussell/es-index-migrator/internal/service"
	"github.com/jonesrussell/es-index-migrator/internal/service/mocks"
)

func expectCounts(gateway *mocks.MockGateway, index string, counts ...int64) {
	calls := make([]any, 0, len(counts))
	for _, c := range counts {
		calls = append(calls, gateway.EXPECT().CountDocuments(gomock.Any(), index).Return(c, nil))
	}
	gomock.InOrder(calls...)
}

func TestDocumentCountVerifier_ConvergesOnLastAttempt(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	expectCounts(gateway, "docs-v2", 3, 3, 3, 5)

	verifier := service.NewDocumentCountVerifier(gateway, service.VerifyPolicy{MaxAttempts: 4}, logger.NewNop())

	got, err := verifier.Verify(context.Background(), "docs-v2", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
}

func TestDocumentCountVerifier_FailsAfterRetries(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	expectCounts(gateway, "docs-v2", 3, 3, 3)

	verifier := service.NewDocumentCountVerifier(gateway, service.DefaultVerifyPolicy(), logger.NewNop())

	_, err := verifier.VerifyWith(context.Background(), "docs-v2", 5, service.VerifyPolicy{MaxAttempts: 3})
	require.ErrorIs(t, err, domain.ErrConsistency)

	var consistency *domain.ConsistencyError
	require.ErrorAs(t, err, &consistency)
	assert.Equal(t, int64(5), consistency.Expected)
	assert.Equal(t, int64(3), consistency.Actual)
	assert.Equal(t, 3, consistency.Attempts)
	assert.Equal(t, "docs-v2", consistency.Index)
}

func TestDocumentCountVerifier_CountErrorsAreRetried(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	unavailable := &domain.TransportError{Op: "count documents", Index: "docs-v2", StatusCode: 503}
	gomock.InOrder(
		gateway.EXPECT().CountDocuments(gomock.Any(), "docs-v2").Return(int64(0), unavailable),
		gateway.EXPECT().CountDocuments(gomock.Any(), "docs-v2").Return(int64(0), unavailable),
		gateway.EXPECT().CountDocuments(gomock.Any(), "docs-v2").Return(int64(7), nil),
	)

	verifier := service.NewDocumentCountVerifier(gateway, service.VerifyPolicy{MaxAttempts: 5}, logger.NewNop())

	got, err := verifier.Verify(context.Background(), "docs-v2", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
}

func TestDocumentCountVerifier_LastErrorIsReported(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	missing := &domain.TransportError{Op: "count documents", Index: "docs-v2", StatusCode: 404}
	gateway.EXPECT().CountDocuments(gomock.Any(), "docs-v2").Return(int64(0), missing).Times(2)

	verifier := service.NewDocumentCountVerifier(gateway, service.VerifyPolicy{MaxAttempts: 2}, logger.NewNop())

	_, err := verifier.Verify(context.Background(), "docs-v2", 1)
	require.ErrorIs(t, err, domain.ErrConsistency)
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.True(t, errors.Is(err, missing))
}

func TestDocumentCountVerifier_WaitsBetweenAttempts(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	expectCounts(gateway, "docs-v2", 1, 2)

	interval := 20 * time.Millisecond
	verifier := service.NewDocumentCountVerifier(gateway, service.VerifyPolicy{MaxAttempts: 2, Interval: interval}, logger.NewNop())

	start := time.Now()
	_, err := verifier.Verify(context.Background(), "docs-v2", 2)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), interval)
}

func TestDefaultVerifyPolicy(t *testing.T) {
	t.Parallel()

	policy := service.DefaultVerifyPolicy()
	assert.Equal(t, 10, policy.MaxAttempts)
	assert.Equal(t, time.Second, policy.Interval)
}

type logEntry struct {
	msg     string
	attempt int64
}

// recordingLogger keeps the message and attempt field of every entry.
type recordingLogger struct {
	entries *[]logEntry
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{entries: &[]logEntry{}}
}

func (l recordingLogger) record(msg string, fields []logger.Field) {
	entry := logEntry{msg: msg}
	for _, f := range fields {
		if f.Key == "attempt" {
			entry.attempt = f.Integer
		}
	}
	*l.entries = append(*l.entries, entry)
}

func (l recordingLogger) Debug(msg string, fields ...logger.Field) { l.record(msg, fields) }
func (l recordingLogger) Info(msg string, fields ...logger.Field) { l.record(msg, fields) }
func (l recordingLogger) Warn(msg string, fields ...logger.Field) { l.record(msg, fields) }
func (l recordingLogger) Error(msg string, fields ...logger.Field) { l.record(msg, fields) }
func (l recordingLogger) Fatal(msg string, fields ...logger.Field) { l.record(msg, fields) }
func (l recordingLogger) With(...logger.Field) logger.Logger { return l }
func (l recordingLogger) Sync() error { return nil }

func TestDocumentCountVerifier_LogsEveryAttempt(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	unavailable := &domain.TransportError{Op: "count documents", Index: "docs-v2", StatusCode: 503}
	gomock.InOrder(
		gateway.EXPECT().CountDocuments(gomock.Any(), "docs-v2").Return(int64(3), nil),
		gateway.EXPECT().CountDocuments(gomock.Any(), "docs-v2").Return(int64(0), unavailable),
		gateway.EXPECT().CountDocuments(gomock.Any(), "docs-v2").Return(int64(4), nil),
		gateway.EXPECT().CountDocuments(gomock.Any(), "docs-v2").Return(int64(5), nil),
	)

	log := newRecordingLogger()
	verifier := service.NewDocumentCountVerifier(gateway, service.VerifyPolicy{MaxAttempts: 4}, log)

	_, err := verifier.Verify(context.Background(), "docs-v2", 5)
	require.NoError(t, err)

	assert.Equal(t, []logEntry{
		{msg: "Document count not yet converged", attempt: 1},
		{msg: "Document count query failed", attempt: 2},
		{msg: "Document count not yet converged", attempt: 3},
		{msg: "Document count verified"},
	}, *log.entries)
}
