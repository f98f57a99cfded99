package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/apuntes-marketplace/internal/types"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorBody {
	t.Helper()
	var body types.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"api not found", types.NewAPIError(types.ErrNotFound, "Listing not found!"), http.StatusNotFound, "Listing not found!"},
		{"wrapped api error", fmt.Errorf("service: %w", types.NewAPIError(types.ErrUnauthenticated, "Wrong credentials")), http.StatusUnauthorized, "Wrong credentials"},
		{"bare forbidden", fmt.Errorf("token revoked: %w", types.ErrForbidden), http.StatusForbidden, "Forbidden"},
		{"conflict", fmt.Errorf("insert: %w", types.ErrConflict), http.StatusConflict, "Conflict"},
		{"invalid", types.NewAPIError(types.ErrInvalidInput, "price must be greater than 0"), http.StatusBadRequest, "price must be greater than 0"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), discardLogger, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decodeErrorBody(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tc.status, body.StatusCode)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name     string         `json:"name"`
		Semester types.Semester `json:"semester"`
	}

	decode := func(body string) (payload, error) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := DecodeJSONBody(httptest.NewRecorder(), req, &p)
		return p, err
	}

	t.Run("valid", func(t *testing.T) {
		p, err := decode(`{"name":"notes","semester":"IV"}`)
		require.NoError(t, err)
		assert.Equal(t, "notes", p.Name)
		assert.Equal(t, types.Semester(4), p.Semester)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := decode(`{"name":"notes","extra":1}`)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		assert.Contains(t, err.Error(), `unknown key "extra"`)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := decode(``)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		assert.EqualError(t, err, "body must not be empty")
	})

	t.Run("bad semester", func(t *testing.T) {
		_, err := decode(`{"semester":11}`)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		assert.Equal(t, http.StatusBadRequest, StatusFor(err))
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := decode(`{"name":"a"}{"name":"b"}`)
		assert.EqualError(t, err, "body must only contain a single JSON value")
	})
}

func TestWriteJSONResponse_NoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
