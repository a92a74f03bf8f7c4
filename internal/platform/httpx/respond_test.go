package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("draft: %w", ErrNotFound), http.StatusNotFound},
		{Mark(errors.New("busy"), ErrConflict), http.StatusConflict},
		{fmt.Errorf("body: %w", ErrValidation), http.StatusBadRequest},
		{Mark(errors.New("dial tcp"), ErrUpstream), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err, status := tc.err, tc.status
		rec := httptest.NewRecorder()
		RespondError(rec, err)
		assert.Equal(t, status, rec.Code, err.Error())

		var problem ProblemDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		assert.Equal(t, status, problem.Status)
	}
}

func TestMarkKeepsOriginalError(t *testing.T) {
	base := errors.New("dial tcp")
	err := Mark(base, ErrUpstream)
	assert.ErrorIs(t, err, base)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, "dial tcp", err.Error())
	assert.NoError(t, Mark(nil, ErrUpstream))
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	err := DecodeJSON(req, &target)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAttachmentHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	Attachment(rec, "Invoice_INV1_2025-01-15.pdf", "application/pdf", []byte("%PDF"))
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Invoice_INV1_2025-01-15.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF", rec.Body.String())
}
