package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-scheduler/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"conflict", apperror.New(apperror.Conflict, "slot taken"), http.StatusConflict, "CONFLICT", "slot taken"},
		{"wrapped not found", fmt.Errorf("load: %w", apperror.New(apperror.NotFound, "doctor not found")), http.StatusNotFound, "NOT_FOUND", "doctor not found"},
		{"forbidden", apperror.New(apperror.Forbidden, "nope"), http.StatusForbidden, "FORBIDDEN", "nope"},
		{"plain error hides details", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"username": "username is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "INVALID_ARGUMENT", body.Code)
	assert.Equal(t, map[string]interface{}{"username": "username is required"}, body.Error)
}

func TestErrorCodeFollowsStatus(t *testing.T) {
	tests := map[int]string{
		http.StatusBadRequest:          "INVALID_ARGUMENT",
		http.StatusNotFound:            "NOT_FOUND",
		http.StatusMethodNotAllowed:    "METHOD_NOT_ALLOWED",
		http.StatusConflict:            "CONFLICT",
		http.StatusInternalServerError: "INTERNAL",
	}
	for status, want := range tests {
		rec := httptest.NewRecorder()
		Error(rec, status, http.StatusText(status), nil)

		assert.Equal(t, status, rec.Code)
		assert.Equal(t, want, decode(t, rec).Code, http.StatusText(status))
	}
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "created", map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Empty(t, body.Code)
}
