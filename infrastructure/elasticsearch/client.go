// Package elasticsearch builds a verified go-elasticsearch client from
// connection settings.
package elasticsearch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	infraerrors "github.com/jonesrussell/es-index-migrator/infrastructure/errors"
	"github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/infrastructure/retry"
)

// NewClient creates an Elasticsearch client and verifies the connection with
// a ping, retrying with exponential backoff while the failure looks transient.
func NewClient(ctx context.Context, cfg Config, log logger.Logger) (*es.Client, error) {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NewNop()
	}

	// Requests are sent once. Only the ping below is retried.
	clientConfig := es.Config{
		DisableRetry: true,
	}

	if cfg.Transport != nil {
		clientConfig.Transport = cfg.Transport
	} else {
		transport, err := createTransport(cfg.TLS)
		if err != nil {
			return nil, err
		}
		clientConfig.Transport = transport
	}

	target := cfg.CloudID
	if cfg.CloudID != "" {
		clientConfig.CloudID = cfg.CloudID
	} else {
		target = normalizeURL(cfg.URL)
		clientConfig.Addresses = []string{target}
	}

	switch {
	case cfg.APIKey != "":
		clientConfig.APIKey = cfg.APIKey
	case cfg.Username != "" && cfg.Password != "":
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	esClient, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	log.Debug("Verifying Elasticsearch connection", logger.String("target", target))

	retryConfig := *cfg.RetryConfig
	if retryConfig.IsRetryable == nil {
		retryConfig.IsRetryable = isRetryablePing
	}
	if err := retry.Retry(ctx, retryConfig, func() error {
		return pingElasticsearch(ctx, esClient, cfg.PingTimeout, log)
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	log.Info("Elasticsearch connection established", logger.String("target", target))

	return esClient, nil
}

// isRetryablePing retries server-side and throttling statuses and transient
// network errors. Other statuses, such as rejected credentials, fail at once.
func isRetryablePing(err error) bool {
	if code, ok := infraerrors.GetHTTPStatusCode(err); ok {
		return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
	}
	return retry.DefaultIsRetryable(err)
}

func normalizeURL(url string) string {
	if url == "" {
		return "http://localhost:9200"
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

func createTransport(tlsConfig *TLSConfig) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if tlsConfig == nil || !tlsConfig.Enabled {
		transport.TLSClientConfig = nil
		return transport, nil
	}

	//nolint:gosec // InsecureSkipVerify is opt-in for local clusters with self-signed certs.
	tlsClientConfig := &tls.Config{
		InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
	}

	if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsClientConfig.Certificates = []tls.Certificate{cert}
	}

	if tlsConfig.CAFile != "" {
		pem, err := os.ReadFile(tlsConfig.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in CA file %s", tlsConfig.CAFile)
		}
		tlsClientConfig.RootCAs = pool
	}

	transport.TLSClientConfig = tlsClientConfig
	return transport, nil
}

func pingElasticsearch(ctx context.Context, client *es.Client, timeout time.Duration, log logger.Logger) error {
	pingCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		log.Debug("Elasticsearch ping failed", logger.Error(err))
		return fmt.Errorf("ping failed: %w", err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			log.Debug("Failed to close ping response body", logger.Error(closeErr))
		}
	}()

	if res.IsError() {
		httpErr := infraerrors.ParseHTTPError(&http.Response{
			StatusCode: res.StatusCode,
			Status:     res.Status(),
			Body:       res.Body,
		})
		log.Debug("Elasticsearch ping returned error", logger.String("status", res.Status()))
		return fmt.Errorf("ping returned error: %w", httpErr)
	}

	return nil
}
