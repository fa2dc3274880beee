package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmserver/llmserver/internal/registry"
)

func emptyRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Load(t.TempDir(), nil, nil)
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	return reg
}

// TestChatCompletionsUnknownAliasReturns400 checks that an unknown model
// alias surfaces a 400 whose body mentions "model not set".
func TestChatCompletionsUnknownAliasReturns400(t *testing.T) {
	reg := emptyRegistry(t)
	router := NewRouter(reg)

	body := `{"model":"nope","messages":[{"role":"system","content":"you are helpful"},{"role":"user","content":"say hi"}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "model not set")
}

func TestChatCompletionsInvalidJSONReturns400(t *testing.T) {
	reg := emptyRegistry(t)
	router := NewRouter(reg)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
