package config

import "time"

// ElasticsearchConfig holds Elasticsearch connection configuration.
// MaxRetries bounds connection verification retries.
type ElasticsearchConfig struct {
	URL        string        `env:"ELASTICSEARCH_URL"      yaml:"url"`
	APIKey     string        `env:"ELASTICSEARCH_API_KEY"  yaml:"api_key"`
	CloudID    string        `env:"ELASTICSEARCH_CLOUD_ID" yaml:"cloud_id"`
	Username   string        `env:"ELASTICSEARCH_USERNAME" yaml:"username"`
	Password   string        `env:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
	// RequestTimeout bounds every individual gateway call, including
	// reindex and snapshot calls that wait for completion.
	RequestTimeout time.Duration `env:"ELASTICSEARCH_REQUEST_TIMEOUT" yaml:"request_timeout"`
	// CAFile verifies the cluster against a private CA.
	CAFile string `env:"ELASTICSEARCH_CA_FILE" yaml:"ca_file"`
	// InsecureSkipVerify disables TLS verification for local clusters.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// SetDefaults applies default values for ElasticsearchConfig.
func (c *ElasticsearchConfig) SetDefaults() {
	if c.URL == "" && c.CloudID == "" {
		c.URL = "http://localhost:9200"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Minute
	}
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// SetDefaults applies default values for LoggingConfig.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
}
