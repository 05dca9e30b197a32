package nguidle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qdbp/nguidle/pkg/loot"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := ctxzap.ToContext(context.Background(), zap.NewNop())
	p := &plugin{defaults: loot.DefaultParams()}

	router := gin.New()
	p.setupWebhookRoutes(ctx)(router.Group("/webhook/nguidle"), nil)
	return router
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetWebhook_Usage(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/webhook/nguidle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available_actions":["set"]`)
	assert.Contains(t, w.Body.String(), `"boss_chance":0.25`)
}

func TestSetWebhook_Estimate(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/webhook/nguidle/set",
		`{"levels": [0], "ttk": 36, "boss_chance": 1, "quantiles": [0.5]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp setResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Estimates, 1)
	assert.Equal(t, 0.5, resp.Estimates[0].Quantile)
	assert.Equal(t, 100, resp.Estimates[0].Kills)
	assert.InDelta(t, 1.0, resp.Estimates[0].Hours, 1e-9)
	assert.Equal(t, []float64{resp.Estimates[0].Hours}, resp.Hours)
}

func TestSetWebhook_DefaultQuantiles(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/webhook/nguidle/set", `{"levels": [0, 0]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp setResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Hours, 3)
	assert.LessOrEqual(t, resp.Hours[0], resp.Hours[1])
	assert.LessOrEqual(t, resp.Hours[1], resp.Hours[2])
}

func TestSetWebhook_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []string{
		`not json`,
		`{}`,
		`{"levels": []}`,
		`{"levels": [0], "base_prob": 0}`,
		`{"levels": [0], "base_prob": 1.5}`,
		`{"levels": [0, 101]}`,
		`{"levels": [0], "ttk": -1}`,
		`{"levels": [0], "quantiles": [1]}`,
	} {
		w := doRequest(router, http.MethodPost, "/webhook/nguidle/set", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body=%s", body)
		assert.Contains(t, w.Body.String(), `"error"`, "body=%s", body)
	}
}

func TestSetWebhook_RequestLimits(t *testing.T) {
	router := newTestRouter(t)

	levels := func(n int) string {
		return "[" + strings.TrimSuffix(strings.Repeat("0,", n), ",") + "]"
	}

	w := doRequest(router, http.MethodPost, "/webhook/nguidle/set", `{"levels": `+levels(64)+`}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(router, http.MethodPost, "/webhook/nguidle/set", `{"levels": `+levels(65)+`}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Levels")

	qs := "[" + strings.TrimSuffix(strings.Repeat("0.5,", 17), ",") + "]"
	w = doRequest(router, http.MethodPost, "/webhook/nguidle/set", `{"levels": [0], "quantiles": `+qs+`}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Quantiles")

	padded := `{"levels": [0]` + strings.Repeat(" ", maxSetBody) + `}`
	w = doRequest(router, http.MethodPost, "/webhook/nguidle/set", padded)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "too large")
}
