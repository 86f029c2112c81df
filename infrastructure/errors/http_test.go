package errors_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraerrors "github.com/jonesrussell/es-index-migrator/infrastructure/errors"
)

func TestNewHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantType    string
		wantMessage string
	}{
		{
			name:        "elasticsearch error object",
			status:      http.StatusNotFound,
			body:        `{"error":{"root_cause":[{"type":"index_not_found_exception","reason":"no such index [things-index-v2]"}],"type":"index_not_found_exception","reason":"no such index [things-index-v2]","index":"things-index-v2"},"status":404}`,
			wantType:    "index_not_found_exception",
			wantMessage: "no such index [things-index-v2]",
		},
		{
			name:        "root cause only",
			status:      http.StatusBadRequest,
			body:        `{"error":{"type":"illegal_argument_exception","root_cause":[{"type":"x","reason":"bad alias"}]}}`,
			wantType:    "illegal_argument_exception",
			wantMessage: "bad alias",
		},
		{
			name:        "plain error string",
			status:      http.StatusUnauthorized,
			body:        `{"error":"missing authentication credentials"}`,
			wantMessage: "missing authentication credentials",
		},
		{
			name:        "message field",
			status:      http.StatusBadGateway,
			body:        `{"message":"upstream unavailable"}`,
			wantMessage: "upstream unavailable",
		},
		{
			name:        "not json",
			status:      http.StatusInternalServerError,
			body:        "  gateway exploded \n",
			wantMessage: "gateway exploded",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := infraerrors.NewHTTPError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.body, got.Body)
			assert.Contains(t, got.Error(), fmt.Sprintf("(%d)", tt.status))
		})
	}
}

func TestParseHTTPError_SuccessIsNil(t *testing.T) {
	t.Parallel()

	resp := &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{}"))}
	require.NoError(t, infraerrors.ParseHTTPError(resp))
}

func TestGetHTTPStatusCode_Wrapped(t *testing.T) {
	t.Parallel()

	resp := &http.Response{
		StatusCode: http.StatusConflict,
		Status:     "409 Conflict",
		Body:       io.NopCloser(strings.NewReader(`{"error":{"type":"resource_already_exists_exception","reason":"index exists"}}`)),
	}
	err := infraerrors.WrapWithContextf(infraerrors.ParseHTTPError(resp), "create index %s", "things-index-v1")

	code, ok := infraerrors.GetHTTPStatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, code)
	assert.True(t, strings.HasPrefix(err.Error(), "create index things-index-v1: "))
}

func TestWrapWithContext_Nil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, infraerrors.WrapWithContext(nil, "ignored"))
	assert.NoError(t, infraerrors.WrapWithContextf(nil, "ignored %d", 1))
}
