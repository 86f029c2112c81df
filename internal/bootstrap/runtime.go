package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jonesrussell/es-index-migrator/internal/config"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

// ErrAPIKeyRequired is returned when a staging or production run has no API
// key and nobody can be asked for one.
var ErrAPIKeyRequired = errors.New("an API key is required for this environment")

// SecretAsker reads a secret from the operator.
type SecretAsker interface {
	AskSecret(ctx context.Context, question string) (string, error)
}

// DetectUnattended reports whether the process runs in CI, where nobody can
// answer a prompt. lookup is os.LookupEnv in production.
func DetectUnattended(lookup func(string) (string, bool)) bool {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, name := range []string{"CI", "GITHUB_ACTIONS"} {
		if v, ok := lookup(name); ok && (strings.EqualFold(v, "true") || v == "1") {
			return true
		}
	}
	if v, ok := lookup("CODEBUILD_BUILD_ARN"); ok && v != "" {
		return true
	}
	return false
}

// RunContext derives the execution mode of the run.
func RunContext(cfg *config.Config, unattended bool) domain.RunContext {
	return domain.RunContext{
		Environment: cfg.RunEnvironment(),
		Disposable:  cfg.Disposable(),
		Unattended:  unattended,
	}
}

// ResolveAPIKey fills cfg.Elasticsearch.APIKey. flagKey wins over the
// configured key. Staging and production without a key prompt the operator,
// or fail when the run is unattended.
func ResolveAPIKey(
	ctx context.Context, cfg *config.Config, flagKey string, run domain.RunContext, asker SecretAsker,
) error {
	if key := strings.TrimSpace(flagKey); key != "" {
		cfg.Elasticsearch.APIKey = key
	}
	if !run.Environment.RequiresAPIKey() || cfg.Elasticsearch.APIKey != "" {
		return nil
	}
	if run.Unattended || asker == nil {
		return fmt.Errorf("%s environment: %w", run.Environment, ErrAPIKeyRequired)
	}

	key, err := asker.AskSecret(ctx, fmt.Sprintf("Enter the API key for the %s environment", run.Environment))
	if err != nil {
		return fmt.Errorf("read API key: %w", err)
	}
	cfg.Elasticsearch.APIKey = key
	return nil
}
