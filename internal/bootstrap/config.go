// Package bootstrap resolves configuration, credentials and the execution
// mode of a run, and wires the gateway and orchestrator from them.
package bootstrap

import (
	"fmt"
	"os"

	infralogger "github.com/jonesrussell/es-index-migrator/infrastructure/logger"
	"github.com/jonesrussell/es-index-migrator/internal/config"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

const serviceName = "esmigrate"

// LoadConfig loads and validates configuration. A non-empty environment
// overrides ELASTIC_ENVIRONMENT; a non-empty path overrides the
// per-environment config file.
func LoadConfig(path, environment string) (*config.Config, error) {
	env := environment
	if env == "" {
		env = os.Getenv("ELASTIC_ENVIRONMENT")
	}
	if path == "" {
		path = config.PathFor(env)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if environment != "" {
		cfg.Environment = domain.ParseEnvironment(environment).String()
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration. debug forces
// the debug level.
func CreateLogger(cfg *config.Config, debug bool) (infralogger.Logger, error) {
	level := cfg.Logging.Level
	if debug || cfg.Debug {
		level = "debug"
	}

	log, err := infralogger.New(infralogger.Config{
		Level:       level,
		Format:      cfg.Logging.Format,
		Development: debug || cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		infralogger.String("service", serviceName),
		infralogger.String("environment", cfg.Environment),
	), nil
}
