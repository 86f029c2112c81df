// Package mappings loads and stores index mapping documents on disk.
package mappings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	infraerrors "github.com/jonesrussell/es-index-migrator/infrastructure/errors"
	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

// DefaultPath is where the canonical mapping lives relative to the working directory.
var DefaultPath = filepath.Join("mappings", "index_mapping.json")

// ErrNoMappings is returned when a document has no "mappings" section.
var ErrNoMappings = errors.New(`mapping document has no "mappings" section`)

// Load reads the mapping document at path.
func Load(path string) (domain.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Mapping{}, fmt.Errorf("read mapping file %s: %w", path, err)
	}

	m, err := domain.ParseMapping(data)
	if err == nil {
		err = Check(m)
	}
	if err != nil {
		return domain.Mapping{}, infraerrors.WrapWithContextf(err, "mapping file %s", path)
	}

	return m, nil
}

// Check rejects documents that could not have come from an index definition.
func Check(m domain.Mapping) error {
	raw := m.Raw()
	section, ok := raw["mappings"]
	if !ok {
		return ErrNoMappings
	}
	if _, isObject := section.(map[string]any); !isObject {
		return fmt.Errorf(`"mappings" must be a JSON object, got %T`, section)
	}
	return nil
}

// Save writes m as indented JSON, creating parent directories.
func Save(path string, m domain.Mapping) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create mapping directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(m.Pretty()+"\n"), 0o600); err != nil {
		return fmt.Errorf("write mapping file %s: %w", path, err)
	}
	return nil
}
