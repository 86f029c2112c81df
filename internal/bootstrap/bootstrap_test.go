package bootstrap_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/bootstrap"
	"github.com/jonesrussell/es-index-migrator/internal/config"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

type askerFunc func(ctx context.Context, question string) (string, error)

func (f askerFunc) AskSecret(ctx context.Context, question string) (string, error) { return f(ctx, question) }

func envMap(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func clearEnv(t *testing.T) {
	t.Helper()

	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, name := range []string{
		"ELASTIC_ENVIRONMENT", "ESMIGRATE_USE_LOCAL", "CONFIG_PATH", "APP_DEBUG",
		"ELASTICSEARCH_URL", "ELASTICSEARCH_API_KEY", "ELASTICSEARCH_CLOUD_ID", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(name, "")
	}
}

func TestDetectUnattended(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		want bool
	}{
		{name: "nothing set", vars: map[string]string{}, want: false},
		{name: "CI true", vars: map[string]string{"CI": "true"}, want: true},
		{name: "CI upper", vars: map[string]string{"CI": "TRUE"}, want: true},
		{name: "CI false", vars: map[string]string{"CI": "false"}, want: false},
		{name: "GitHub Actions", vars: map[string]string{"GITHUB_ACTIONS": "true"}, want: true},
		{name: "CodeBuild", vars: map[string]string{"CODEBUILD_BUILD_ARN": "arn:aws:codebuild:eu-west-1:1:build/x"}, want: true},
		{name: "CodeBuild empty", vars: map[string]string{"CODEBUILD_BUILD_ARN": ""}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bootstrap.DetectUnattended(envMap(tt.vars)))
		})
	}
}

func TestRunContext(t *testing.T) {
	t.Parallel()

	local := &config.Config{Environment: "local"}
	assert.Equal(t, domain.RunContext{Environment: domain.EnvironmentLocal, Disposable: true},
		bootstrap.RunContext(local, false))

	prod := &config.Config{Environment: "production"}
	assert.Equal(t, domain.RunContext{Environment: domain.EnvironmentProduction, Unattended: true},
		bootstrap.RunContext(prod, true))

	prodAsLocal := &config.Config{Environment: "production", UseLocal: true}
	assert.True(t, bootstrap.RunContext(prodAsLocal, false).Disposable)
}

func TestResolveAPIKey(t *testing.T) {
	t.Parallel()

	staging := domain.RunContext{Environment: domain.EnvironmentStaging}
	noPrompt := askerFunc(func(context.Context, string) (string, error) {
		t.Error("unexpected prompt")
		return "", nil
	})

	tests := []struct {
		name       string
		configured string
		flag       string
		run        domain.RunContext
		asker      bootstrap.SecretAsker
		want       string
		wantErr    error
	}{
		{name: "local needs nothing", run: domain.RunContext{Environment: domain.EnvironmentLocal}, asker: noPrompt},
		{name: "flag wins", configured: "from-env", flag: "from-flag", run: staging, asker: noPrompt, want: "from-flag"},
		{name: "configured key", configured: "from-env", run: staging, asker: noPrompt, want: "from-env"},
		{
			name: "prompted",
			run:  staging,
			asker: askerFunc(func(_ context.Context, q string) (string, error) {
				assert.Contains(t, q, "staging")
				return "typed", nil
			}),
			want: "typed",
		},
		{
			name:    "unattended without key",
			run:     domain.RunContext{Environment: domain.EnvironmentProduction, Unattended: true},
			asker:   noPrompt,
			wantErr: bootstrap.ErrAPIKeyRequired,
		},
		{name: "no prompt available", run: staging, wantErr: bootstrap.ErrAPIKeyRequired},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{}
			cfg.Elasticsearch.APIKey = tt.configured

			err := bootstrap.ResolveAPIKey(context.Background(), cfg, tt.flag, tt.run, tt.asker)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Elasticsearch.APIKey)
		})
	}
}

func TestResolveAPIKey_PromptFailure(t *testing.T) {
	t.Parallel()

	errClosed := errors.New("stdin closed")
	cfg := &config.Config{}
	err := bootstrap.ResolveAPIKey(context.Background(), cfg, "", domain.RunContext{Environment: domain.EnvironmentProduction},
		askerFunc(func(context.Context, string) (string, error) { return "", errClosed }))
	require.ErrorIs(t, err, errClosed)
}

func TestLoadConfig_EnvironmentSelectsFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yml"),
		[]byte("index:\n  alias: staged\n"), 0o600))

	cfg, err := bootstrap.LoadConfig("", "Staging")
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "staged", cfg.Index.Alias)

	t.Setenv("ELASTIC_ENVIRONMENT", "staging")
	cfg, err = bootstrap.LoadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, "staged", cfg.Index.Alias)

	cfg, err = bootstrap.LoadConfig("", "production")
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "things", cfg.Index.Alias)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("verify:\n  max_attempts: -3\n"), 0o600))

	_, err := bootstrap.LoadConfig(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify.max_attempts")
}

func TestCreateLogger(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Environment: "local"}
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = infralogger.FormatJSON

	log, err := bootstrap.CreateLogger(cfg, true)
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestSetupElasticsearch(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		gotAuth string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":{"number":"8.11.0"},"tagline":"You Know, for Search"}`))
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{Environment: "staging"}
	cfg.Elasticsearch.URL = server.URL
	cfg.Elasticsearch.APIKey = "abc123"
	cfg.Elasticsearch.SnapshotRepository = "nightly"

	gateway, err := bootstrap.SetupElasticsearch(context.Background(), cfg, infralogger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "nightly", gateway.SnapshotRepository())
	mu.Lock()
	assert.Equal(t, "ApiKey abc123", gotAuth)
	mu.Unlock()

	o, err := bootstrap.NewOrchestrator(&config.Config{
		Index: config.IndexConfig{Alias: "things", CanonicalName: "things-index-v1", ShadowName: "things-index-v2"},
	}, gateway, domain.RunContext{}, domain.Mapping{}, nil, infralogger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, o)
}

func TestSetupElasticsearch_GatewayTimeoutIsNotResent(t *testing.T) {
	t.Parallel()

	var (
		mu        sync.Mutex
		reindexes int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/_reindex" {
			mu.Lock()
			reindexes++
			first := reindexes == 1
			mu.Unlock()
			if first {
				w.WriteHeader(http.StatusGatewayTimeout)
				_, _ = w.Write([]byte(`{"error":{"type":"timeout","reason":"upstream timed out"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"total":100,"created":100,"failures":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"version":{"number":"8.11.0"}}`))
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{Environment: "staging"}
	cfg.Elasticsearch.URL = server.URL
	cfg.Elasticsearch.MaxRetries = 3

	gateway, err := bootstrap.SetupElasticsearch(context.Background(), cfg, infralogger.NewNop())
	require.NoError(t, err)

	_, err = gateway.Reindex(context.Background(), "things-index-v1", "things-index-v2")
	require.Error(t, err)

	var transportErr *domain.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusGatewayTimeout, transportErr.StatusCode)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, reindexes)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
