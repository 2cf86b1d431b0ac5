package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPValidator_IsValid(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req validateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "char-42", req.Source)

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"valid":%t}`, req.Password == "s3cret")
	}))
	defer ts.Close()

	v := NewHTTPValidator(ts.URL)

	ok, err := v.IsValid(context.Background(), "char-42", "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.IsValid(context.Background(), "char-42", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPValidator_NonOKStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	v := NewHTTPValidator(ts.URL)

	_, err := v.IsValid(context.Background(), "char-42", "s3cret")
	assert.Error(t, err)
}

func TestAllowAll(t *testing.T) {
	ok, err := AllowAll{}.IsValid(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.True(t, ok)
}
