// Package config holds the es-index-migrator configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	infraconfig "github.com/jonesrussell/es-index-migrator/infrastructure/config"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
	"github.com/jonesrussell/es-index-migrator/internal/mappings"
)

// Default configuration values.
const (
	defaultAlias              = "things"
	defaultCanonicalName      = "things-index-v1"
	defaultShadowName         = "things-index-v2"
	defaultSnapshotRepository = domain.DefaultSnapshotRepository
	defaultVerifyAttempts     = 10
	defaultVerifyInterval     = time.Second
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
)

// Config holds the application configuration.
type Config struct {
	// Environment selects the target cluster. Staging and production require an API key.
	Environment string `env:"ELASTIC_ENVIRONMENT" yaml:"environment"`

	// UseLocal treats the target as disposable regardless of Environment.
	UseLocal bool `env:"ESMIGRATE_USE_LOCAL" yaml:"use_local"`
	Debug    bool `env:"APP_DEBUG"           yaml:"debug"`

	Elasticsearch ElasticsearchConfig       `yaml:"elasticsearch"`
	Index         IndexConfig               `yaml:"index"`
	Verify        VerifyConfig              `yaml:"verify"`
	Logging       infraconfig.LoggingConfig `yaml:"logging"`
}

// ElasticsearchConfig extends the shared connection settings with snapshot options.
type ElasticsearchConfig struct {
	infraconfig.ElasticsearchConfig `yaml:",inline"`

	SnapshotRepository string `env:"ELASTICSEARCH_SNAPSHOT_REPOSITORY" yaml:"snapshot_repository"`
	RenamePattern      string `yaml:"rename_pattern"`
	RenameReplacement  string `yaml:"rename_replacement"`
}

// IndexConfig names the indices a migration works on.
type IndexConfig struct {
	Alias         string `env:"ESMIGRATE_INDEX_ALIAS"     yaml:"alias"`
	CanonicalName string `env:"ESMIGRATE_CANONICAL_INDEX" yaml:"canonical_name"`
	ShadowName    string `env:"ESMIGRATE_SHADOW_INDEX"    yaml:"shadow_name"`
	MappingFile   string `env:"ESMIGRATE_MAPPING_FILE"    yaml:"mapping_file"`
}

// VerifyConfig bounds document count verification.
type VerifyConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Interval    time.Duration `yaml:"interval"`
}

// Load loads configuration from a YAML file. A missing file is not an error.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

// PathFor returns the config file for an environment, config.<environment>.yml,
// unless CONFIG_PATH is set.
func PathFor(environment string) string {
	return infraconfig.GetConfigPath(fmt.Sprintf("config.%s.yml", domain.ParseEnvironment(environment)))
}

func setDefaults(cfg *Config) {
	cfg.Environment = domain.ParseEnvironment(cfg.Environment).String()
	cfg.Elasticsearch.SetDefaults()
	setSnapshotDefaults(&cfg.Elasticsearch)
	setIndexDefaults(&cfg.Index)
	setVerifyDefaults(&cfg.Verify)
	setLoggingDefaults(&cfg.Logging)
}

func setSnapshotDefaults(e *ElasticsearchConfig) {
	if e.SnapshotRepository == "" {
		e.SnapshotRepository = defaultSnapshotRepository
	}
	if e.RenamePattern == "" {
		e.RenamePattern = domain.DefaultRenamePattern
	}
	if e.RenameReplacement == "" {
		e.RenameReplacement = domain.DefaultRenameReplacement
	}
}

func setIndexDefaults(i *IndexConfig) {
	if i.Alias == "" {
		i.Alias = defaultAlias
	}
	if i.CanonicalName == "" {
		i.CanonicalName = defaultCanonicalName
	}
	if i.ShadowName == "" {
		i.ShadowName = defaultShadowName
	}
	if i.MappingFile == "" {
		i.MappingFile = mappings.DefaultPath
	}
}

func setVerifyDefaults(v *VerifyConfig) {
	if v.MaxAttempts == 0 {
		v.MaxAttempts = defaultVerifyAttempts
	}
	if v.Interval == 0 {
		v.Interval = defaultVerifyInterval
	}
}

func setLoggingDefaults(l *infraconfig.LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

// RunEnvironment returns the parsed environment.
func (c *Config) RunEnvironment() domain.Environment {
	return domain.ParseEnvironment(c.Environment)
}

// Disposable reports whether the target cluster holds data not worth protecting.
func (c *Config) Disposable() bool {
	return c.UseLocal || c.RunEnvironment().IsLocal()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Elasticsearch.Validate(); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("elasticsearch.snapshot_repository", c.Elasticsearch.SnapshotRepository); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("index.alias", c.Index.Alias); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("index.canonical_name", c.Index.CanonicalName); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("index.shadow_name", c.Index.ShadowName); err != nil {
		return err
	}
	if strings.EqualFold(c.Index.CanonicalName, c.Index.ShadowName) {
		return &infraconfig.ValidationError{Field: "index.shadow_name", Message: "must differ from index.canonical_name"}
	}
	if err := infraconfig.ValidateRequired("index.mapping_file", c.Index.MappingFile); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositive("verify.max_attempts", c.Verify.MaxAttempts); err != nil {
		return err
	}
	if c.Verify.Interval < 0 {
		return &infraconfig.ValidationError{Field: "verify.interval", Message: "must not be negative"}
	}
	return c.Logging.Validate()
}
