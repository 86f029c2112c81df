package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/es-index-migrator/internal/domain"
)

const thingsMapping = `{
  "aliases": {"things": {}},
  "settings": {"number_of_shards": 1},
  "mappings": {"properties": {"name": {"type": "keyword"}, "tags": {"type": "text", "fields": {"raw": {"type": "keyword"}}}}}
}`

func TestParseMapping(t *testing.T) {
	t.Parallel()

	m, err := domain.ParseMapping([]byte(thingsMapping))
	require.NoError(t, err)
	assert.Equal(t, []string{"things"}, m.Aliases())
	assert.True(t, m.HasAlias("things"))
	assert.False(t, m.IsZero())

	_, err = domain.ParseMapping([]byte(`[1,2]`))
	require.Error(t, err)

	_, err = domain.ParseMapping([]byte(`null`))
	require.Error(t, err)
}

func TestMapping_DerivationsDoNotMutateReceiver(t *testing.T) {
	t.Parallel()

	canonical, err := domain.ParseMapping([]byte(thingsMapping))
	require.NoError(t, err)
	before, err := json.Marshal(canonical)
	require.NoError(t, err)

	shadow := canonical.WithoutAlias("things").WithAlias("things2")

	after, err := json.Marshal(canonical)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
	assert.True(t, canonical.HasAlias("things"))
	assert.False(t, canonical.HasAlias("things2"))
	assert.Equal(t, []string{"things2"}, shadow.Aliases())
}

func TestMapping_RawIsACopy(t *testing.T) {
	t.Parallel()

	m, err := domain.ParseMapping([]byte(thingsMapping))
	require.NoError(t, err)

	raw := m.Raw()
	raw["aliases"].(map[string]any)["intruder"] = map[string]any{}
	delete(raw, "settings")

	assert.False(t, m.HasAlias("intruder"))
	assert.Contains(t, m.Raw(), "settings")
}

func TestMapping_WithAliasCreatesAliasesObject(t *testing.T) {
	t.Parallel()

	var zero domain.Mapping
	assert.True(t, zero.IsZero())

	data, err := json.Marshal(zero)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	withAlias := zero.WithAlias("docs2")
	data, err = json.Marshal(withAlias)
	require.NoError(t, err)
	assert.JSONEq(t, `{"aliases":{"docs2":{}}}`, string(data))
	assert.True(t, zero.IsZero())
}

func TestMapping_NumbersRoundTripExactly(t *testing.T) {
	t.Parallel()

	m, err := domain.ParseMapping([]byte(`{"settings":{"index.max_result_window":9007199254740993}}`))
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"settings":{"index.max_result_window":9007199254740993}}`, string(data))
}
