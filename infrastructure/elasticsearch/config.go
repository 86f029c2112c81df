package elasticsearch

import (
	"net/http"
	"time"

	"github.com/jonesrussell/es-index-migrator/infrastructure/retry"
)

// Config holds Elasticsearch client configuration
type Config struct {
	// URL is the Elasticsearch server URL. Ignored when CloudID is set.
	URL string

	// Username and Password enable basic auth when no API key is given.
	Username string
	Password string

	// APIKey is sent as "Authorization: ApiKey <key>".
	APIKey string

	// CloudID is the optional Elastic Cloud deployment ID.
	CloudID string

	TLS *TLSConfig

	// MaxRetries is the number of ping retries after the first attempt
	// (default: 4). Other requests are sent exactly once.
	MaxRetries int

	// PingTimeout is the timeout for ping verification (default: 5s)
	PingTimeout time.Duration

	// RetryConfig drives connection verification.
	// Default: MaxRetries+1 attempts, 2s initial delay, 10s max delay.
	RetryConfig *retry.Config

	// Transport replaces the HTTP transport. Tests use it to stub the cluster.
	Transport http.RoundTripper
}

// TLSConfig holds TLS configuration for Elasticsearch connections
type TLSConfig struct {
	Enabled            bool
	InsecureSkipVerify bool
	CertFile           string
	KeyFile            string
	CAFile             string
}

// SetDefaults applies default values to the config if not set
func (c *Config) SetDefaults() {
	if c.URL == "" && c.CloudID == "" {
		c.URL = "http://localhost:9200"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 4
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
	if c.RetryConfig == nil {
		c.RetryConfig = &retry.Config{
			MaxAttempts:  c.MaxRetries + 1,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		}
	}
}
