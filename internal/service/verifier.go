package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/infrastructure/retry"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

// Default verification policy.
const (
	DefaultVerifyAttempts = 10
	DefaultVerifyInterval = time.Second
)

// VerifyPolicy bounds document count polling by attempt count.
type VerifyPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultVerifyPolicy returns 10 attempts one second apart.
func DefaultVerifyPolicy() VerifyPolicy {
	return VerifyPolicy{MaxAttempts: DefaultVerifyAttempts, Interval: DefaultVerifyInterval}
}

// DocumentCountVerifier polls an index until its document count matches.
type DocumentCountVerifier struct {
	gateway Gateway
	policy  VerifyPolicy
	logger  logger.Logger
}

// NewDocumentCountVerifier creates a verifier. A non-positive MaxAttempts
// falls back to the default.
func NewDocumentCountVerifier(gateway Gateway, policy VerifyPolicy, log logger.Logger) *DocumentCountVerifier {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultVerifyAttempts
	}
	return &DocumentCountVerifier{gateway: gateway, policy: policy, logger: log}
}

// Verify polls with the configured policy.
func (v *DocumentCountVerifier) Verify(ctx context.Context, index string, expected int64) (int64, error) {
	return v.VerifyWith(ctx, index, expected, v.policy)
}

// VerifyWith polls index until it reports expected documents. Count errors
// and mismatches are both retried. Exhaustion returns *domain.ConsistencyError.
func (v *DocumentCountVerifier) VerifyWith(
	ctx context.Context, index string, expected int64, policy VerifyPolicy,
) (int64, error) {
	log := v.logger.With(logger.String("index", index), logger.Int64("expected", expected))

	attempt := 0
	count := func(ctx context.Context) (int64, error) {
		attempt++
		n, err := v.gateway.CountDocuments(ctx, index)
		if err != nil {
			log.Warn("Document count query failed",
				logger.Error(err),
				logger.Int("attempt", attempt),
				logger.Int("max_attempts", policy.MaxAttempts),
			)
		}
		return n, err
	}
	matches := func(actual int64) bool {
		if actual == expected {
			return true
		}
		log.Info("Document count not yet converged",
			logger.Int64("actual", actual),
			logger.Int("attempt", attempt),
			logger.Int("max_attempts", policy.MaxAttempts),
		)
		return false
	}

	out, err := retry.Until(ctx, policy.MaxAttempts, policy.Interval, count, matches)
	if err != nil {
		return 0, fmt.Errorf("verify document count of %s: %w", index, err)
	}

	if !out.Satisfied {
		return out.Value, &domain.ConsistencyError{
			Index:    index,
			Expected: expected,
			Actual:   out.Value,
			Attempts: out.Attempts,
			Err:      out.Err,
		}
	}

	log.Debug("Document count verified", logger.Int("attempts", out.Attempts))
	return out.Value, nil
}
