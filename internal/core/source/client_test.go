package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-viewer/internal/infrastructure/config"
	"recipe-viewer/internal/pkg/common"
)

func testConfig() config.SourceConfig {
	return config.SourceConfig{
		Enabled:      true,
		Timeout:      2 * time.Second,
		RetryCount:   0,
		UserAgent:    "recipe-viewer-test",
		MaxBodyBytes: 1024,
	}
}

func TestFetchPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "recipe-viewer-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"parsedIngredients":[{"name":"egg","unit":null,"amount":2,"amount_max":null,"preparation":null,"comment":null,"raw":"2 eggs"}],"steps":["Beat the eggs."]}`))
	}))
	defer srv.Close()

	payload, err := NewClient(testConfig()).FetchPayload(context.Background(), srv.URL+"/recipe.json")
	require.NoError(t, err)
	require.Len(t, payload.ParsedIngredients, 1)
	assert.Equal(t, "egg", payload.ParsedIngredients[0].Name)
	assert.Nil(t, payload.ParsedIngredients[0].Unit)
	assert.Equal(t, 2.0, *payload.ParsedIngredients[0].Amount)
	assert.Equal(t, []string{"Beat the eggs."}, payload.Steps)
}

func TestFetchPayloadErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/garbage":
			_, _ = w.Write([]byte("<html>not json</html>"))
		case "/huge":
			_, _ = w.Write([]byte(`{"steps":["` + strings.Repeat("a", 2048) + `"]}`))
		}
	}))
	defer srv.Close()

	client := NewClient(testConfig())
	ctx := context.Background()

	_, err := client.FetchPayload(ctx, srv.URL+"/missing")
	assert.ErrorIs(t, err, common.ErrSourceUnavailable)

	_, err = client.FetchPayload(ctx, srv.URL+"/garbage")
	assert.ErrorIs(t, err, common.ErrInvalidPayload)

	_, err = client.FetchPayload(ctx, srv.URL+"/huge")
	assert.ErrorIs(t, err, common.ErrInvalidPayload)

	_, err = client.FetchPayload(ctx, "ftp://example.com/recipe.json")
	assert.True(t, common.IsValidationError(err))

	_, err = client.FetchPayload(ctx, "not a url")
	assert.True(t, common.IsValidationError(err))
}

func TestFetchPayloadRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"parsedIngredients":[],"steps":[]}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.RetryCount = 2
	payload, err := NewClient(cfg).FetchPayload(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, payload.IsEmpty())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchPayloadDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	_, err := NewClient(cfg).FetchPayload(context.Background(), "http://example.com")
	assert.ErrorIs(t, err, common.ErrSourceUnavailable)
}
