// Package testutil holds helpers shared by the ops router and service tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Get serves a GET for path through h and returns the recorded response.
func Get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

// DecodeJSON decodes a JSON object body, failing the test if the response is
// not JSON. The recorder body is consumed.
func DecodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"), "response is not JSON")
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body), "decode response body")
	return body
}

// AssertStatus reports the body alongside a mismatched status code.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status code, body: %s", rr.Body.String())
}

// AssertJSONContains decodes the body and checks one top-level field.
func AssertJSONContains(t *testing.T, rr *httptest.ResponseRecorder, key string, expected any) {
	t.Helper()
	assert.Equal(t, expected, DecodeJSON(t, rr)[key], "unexpected value for key %q", key)
}
