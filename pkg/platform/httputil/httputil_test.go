package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "regadmin/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDesc   string
	}{
		{
			name:       "conflict carries description",
			err:        dErrors.New(dErrors.CodeConflict, "refresh already in progress"),
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
			wantDesc:   "refresh already in progress",
		},
		{
			name:       "fetch failure maps to bad gateway",
			err:        dErrors.New(dErrors.CodeFetchFailed, ""),
			wantStatus: http.StatusBadGateway,
			wantCode:   "fetch_failed",
		},
		{
			name:       "plain errors hide detail",
			err:        errors.New("pq: password authentication failed"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"])
			assert.Equal(t, tt.wantDesc, body["error_description"])
		})
	}
}

func TestDomainCodeToHTTPStatus_Unknown(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, DomainCodeToHTTPStatus(dErrors.Code("mystery")))
	assert.Equal(t, "internal_error", DomainCodeToHTTPCode(dErrors.Code("mystery")))
}
