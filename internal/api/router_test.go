package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recipeService "recipe-viewer/internal/core/recipe"
	"recipe-viewer/internal/infrastructure/config"
	"recipe-viewer/internal/infrastructure/metrics"
	"recipe-viewer/internal/pkg/common"
)

const samplePayloadJSON = `{
	"parsedIngredients": [
		{"name": "all-purpose flour", "unit": "cups", "amount": 2, "raw": "2 cups all-purpose flour"},
		{"name": "Granulated Sugar", "unit": "cup", "amount": 1, "raw": "1 cup granulated sugar"},
		{"name": "eggs", "amount": 2, "raw": "2 eggs"},
		{"name": "salt", "raw": "salt, to taste"},
		{"name": "xy", "raw": "1 xy"}
	],
	"steps": [
		"Whisk the flour and sugar together.",
		"Beat in the egg.",
		"Fold in a pinch of salt and the remaining flour.",
		"Bake for 20 minutes."
	]
}`

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.App.Debug = true
	cfg.RateLimit.Enabled = false
	cfg.DedupWindow = time.Nanosecond
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("test")
	svc := recipeService.NewService(recipeService.Options{LinkingDefault: true, Metrics: m})
	router, err := SetupRouter(cfg, svc, m)
	require.NoError(t, err)
	return router, m
}

func perform(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func createDocument(t *testing.T, router http.Handler) string {
	t.Helper()
	w := perform(router, http.MethodPost, "/api/v1/recipe/documents", samplePayloadJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	decode(t, w, &resp)
	id, _ := resp["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "/api/v1/recipe/documents/"+id, w.Header().Get("Location"))
	return id
}

func TestSetupRouterRequiresDependencies(t *testing.T) {
	_, err := SetupRouter(nil, recipeService.NewService(recipeService.Options{}), nil)
	assert.Error(t, err)
	_, err = SetupRouter(testConfig(), nil, nil)
	assert.Error(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	for _, path := range []string{"/health", "/ready", "/live"} {
		t.Run(path, func(t *testing.T) {
			w := perform(router, http.MethodGet, path, "")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestLinkEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	w := perform(router, http.MethodPost, "/api/v1/recipe/link", samplePayloadJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var index struct {
		IngredientToSteps [][]int `json:"ingredientToSteps"`
		StepToIngredients [][]int `json:"stepToIngredients"`
	}
	decode(t, w, &index)
	assert.Equal(t, [][]int{{0, 2}, {0}, {1}, {2}, {}}, index.IngredientToSteps)
	assert.Equal(t, [][]int{{0, 1}, {2}, {0, 3}, {}}, index.StepToIngredients)

	w = perform(router, http.MethodPost, "/api/v1/recipe/link", `{"steps": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp common.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, common.ErrCodeInvalidPayload, errResp.Code)
}

func TestScaleEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	body := `{"parsedIngredients": [{"name": "butter", "unit": "tbsp", "amount": 5, "raw": "5 tbsp butter"}], "factor": 2}`
	w := perform(router, http.MethodPost, "/api/v1/recipe/scale", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result recipeService.ScaleResult
	decode(t, w, &result)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "10 tbsp butter", result.Items[0].Text)
	require.NotNil(t, result.Items[0].Tooltip)
	assert.Equal(t, "½ cup + 2 tbsp", result.Items[0].Tooltip.Equivalent)

	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "missing factor", body: `{"parsedIngredients": []}`, code: common.ErrCodeInvalidRequest},
		{name: "zero factor", body: `{"parsedIngredients": [], "factor": 0}`, code: common.ErrCodeInvalidScale},
		{name: "negative factor", body: `{"parsedIngredients": [], "factor": -2}`, code: common.ErrCodeInvalidScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodPost, "/api/v1/recipe/scale", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var errResp common.ErrorResponse
			decode(t, w, &errResp)
			assert.Equal(t, tt.code, errResp.Code)
		})
	}

	w = perform(router, http.MethodGet, "/api/v1/recipe/scale/presets", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"½×"`)
}

func TestDocumentLifecycle(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())
	id := createDocument(t, router)
	base := "/api/v1/recipe/documents/" + id

	w := perform(router, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]interface{}
	decode(t, w, &doc)
	assert.Equal(t, true, doc["linking_enabled"])
	assert.Equal(t, float64(5), doc["ingredient_count"])

	w = perform(router, http.MethodGet, base+"/links", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stepToIngredients":[[0,1],[2],[0,3],[]]`)

	w = perform(router, http.MethodGet, base+"/steps/0/highlights", "")
	require.Equal(t, http.StatusOK, w.Code)
	var highlight recipeService.Highlight
	decode(t, w, &highlight)
	assert.Equal(t, []int{0, 1}, highlight.Ingredients)
	assert.Equal(t, "Whisk the <mark>flour</mark> and <mark>sugar</mark> together.", highlight.Marked)

	w = perform(router, http.MethodGet, base+"/steps/0/highlights?ingredient=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &highlight)
	assert.Equal(t, []int{1}, highlight.Ingredients)

	w = perform(router, http.MethodGet, base+"/ingredients/0/highlights", "")
	require.Equal(t, http.StatusOK, w.Code)
	var byIngredient struct {
		Ingredient int                        `json:"ingredient"`
		Steps      []recipeService.Highlight `json:"steps"`
	}
	decode(t, w, &byIngredient)
	assert.Len(t, byIngredient.Steps, 2)

	w = perform(router, http.MethodGet, base+"/scale?factor=0.5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var scaled recipeService.ScaleResult
	decode(t, w, &scaled)
	assert.Equal(t, "1 cups all-purpose flour", scaled.Items[0].Text)
	assert.Equal(t, "½ cup Granulated Sugar", scaled.Items[1].Text)

	w = perform(router, http.MethodPut, base+"/linking", `{"enabled": false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"linking_enabled": false, "index": null}`, w.Body.String())

	w = perform(router, http.MethodGet, base+"/links", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = perform(router, http.MethodPut, base, `{"parsedIngredients": [], "steps": ["Serve."]}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &doc)
	assert.Equal(t, float64(2), doc["version"])

	w = perform(router, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = perform(router, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var errResp common.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, common.ErrCodeDocumentNotFound, errResp.Code)
}

func TestDocumentErrors(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())
	id := createDocument(t, router)
	base := "/api/v1/recipe/documents/" + id

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "step out of range", method: http.MethodGet, path: base + "/steps/9/highlights", status: http.StatusBadRequest, code: common.ErrCodeInvalidIndex},
		{name: "step not a number", method: http.MethodGet, path: base + "/steps/x/highlights", status: http.StatusBadRequest, code: common.ErrCodeInvalidIndex},
		{name: "bad ingredient query", method: http.MethodGet, path: base + "/steps/0/highlights?ingredient=a", status: http.StatusBadRequest, code: common.ErrCodeInvalidIndex},
		{name: "ingredient out of range", method: http.MethodGet, path: base + "/ingredients/7/highlights", status: http.StatusBadRequest, code: common.ErrCodeInvalidIndex},
		{name: "bad factor", method: http.MethodGet, path: base + "/scale?factor=abc", status: http.StatusBadRequest, code: common.ErrCodeInvalidScale},
		{name: "linking without flag", method: http.MethodPut, path: base + "/linking", body: `{}`, status: http.StatusBadRequest, code: common.ErrCodeInvalidRequest},
		{name: "unknown document", method: http.MethodGet, path: "/api/v1/recipe/documents/nope/links", status: http.StatusNotFound, code: common.ErrCodeDocumentNotFound},
		{name: "source disabled", method: http.MethodPost, path: "/api/v1/recipe/documents", body: `{"source_url": "http://example.com/r.json"}`, status: http.StatusBadGateway, code: common.ErrCodeSourceUnavailable},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/unknown", status: http.StatusNotFound, code: common.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			var errResp common.ErrorResponse
			decode(t, w, &errResp)
			assert.Equal(t, tt.code, errResp.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	perform(router, http.MethodPost, "/api/v1/recipe/link", samplePayloadJSON)
	w := perform(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `test_http_requests_total{method="POST",route="/api/v1/recipe/link",status="200"} 1`)
	assert.Contains(t, body, "test_linker_index_builds_total")

	cfg := testConfig()
	cfg.Metrics.Enabled = false
	router, _ = newTestRouter(t, cfg)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodGet, "/metrics", "").Code)
}

func TestRateLimitAndDeduplication(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Requests = 1
	cfg.RateLimit.Window = time.Hour
	cfg.RateLimit.Burst = 1
	router, _ := newTestRouter(t, cfg)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/api/v1/recipe/scale/presets", "").Code)
	w := perform(router, http.MethodGet, "/api/v1/recipe/scale/presets", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	cfg = testConfig()
	cfg.DedupWindow = time.Minute
	router, _ = newTestRouter(t, cfg)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodPost, "/api/v1/recipe/link", samplePayloadJSON).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(router, http.MethodPost, "/api/v1/recipe/link", samplePayloadJSON).Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodPost, "/api/v1/recipe/link", `{"steps": ["Serve."]}`).Code)
}

func TestBodySizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 64
	router, _ := newTestRouter(t, cfg)

	w := perform(router, http.MethodPost, "/api/v1/recipe/link", samplePayloadJSON)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
