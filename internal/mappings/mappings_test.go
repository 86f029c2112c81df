package mappings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/es-index-migrator/internal/domain"
	"github.com/jonesrussell/es-index-migrator/internal/mappings"
)

func writeMapping(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "index_mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
		fails   bool
	}{
		{name: "valid", body: `{"aliases":{"things":{}},"mappings":{"properties":{}}}`},
		{name: "no mappings section", body: `{"aliases":{"things":{}}}`, wantErr: mappings.ErrNoMappings, fails: true},
		{name: "mappings not an object", body: `{"mappings":"nope"}`, fails: true},
		{name: "invalid json", body: `{"mappings":`, fails: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := mappings.Load(writeMapping(t, tt.body))
			if !tt.fails {
				require.NoError(t, err)
				assert.True(t, m.HasAlias("things"))
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := mappings.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_ThenLoad(t *testing.T) {
	t.Parallel()

	m, err := domain.ParseMapping([]byte(`{"aliases":{"docs":{}},"mappings":{"properties":{"title":{"type":"text"}}}}`))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "current.json")
	require.NoError(t, mappings.Save(path, m))

	loaded, err := mappings.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Pretty(), loaded.Pretty())
}

func TestDefaultMappingFileIsValid(t *testing.T) {
	t.Parallel()

	m, err := mappings.Load(filepath.Join("..", "..", mappings.DefaultPath))
	require.NoError(t, err)
	assert.True(t, m.HasAlias("things"))
}
