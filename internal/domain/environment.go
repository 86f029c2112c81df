package domain

import "strings"

// Environment names the cluster a run targets.
type Environment string

const (
	EnvironmentLocal      Environment = "local"
	EnvironmentStaging    Environment = "staging"
	EnvironmentProduction Environment = "production"
)

// ParseEnvironment normalises an environment name. Empty means local.
func ParseEnvironment(s string) Environment {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return EnvironmentLocal
	}
	return Environment(s)
}

// IsLocal reports whether the environment is the developer's own cluster.
func (e Environment) IsLocal() bool {
	return e == EnvironmentLocal
}

// RequiresAPIKey reports whether credentials must be supplied at run time.
func (e Environment) RequiresAPIKey() bool {
	return e == EnvironmentStaging || e == EnvironmentProduction
}

func (e Environment) String() string {
	return string(e)
}

// RunContext is the execution mode resolved once at startup.
type RunContext struct {
	Environment Environment
	// Disposable marks data not worth protecting: local environment or use_local.
	Disposable bool
	// Unattended is true in CI, where nobody can answer a prompt.
	Unattended bool
}
