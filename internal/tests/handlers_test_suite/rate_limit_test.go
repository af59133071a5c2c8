package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rogerio-castellano/market-pulse/internal/apperr"
	api "github.com/rogerio-castellano/market-pulse/internal/http"
	"github.com/rogerio-castellano/market-pulse/internal/http/ban"
	handler "github.com/rogerio-castellano/market-pulse/internal/http/handlers"
	rl "github.com/rogerio-castellano/market-pulse/internal/http/rate_limiter"
	"github.com/rogerio-castellano/market-pulse/internal/logging"
	"github.com/rogerio-castellano/market-pulse/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error.Code
}

func TestRateLimit_ThrottlesThenBans(t *testing.T) {
	logger := logging.Discard()
	h := newHandler(repo.NewInMemoryProductRepository(), &recordingRenderer{})
	limiter := rl.New(0.001, 1)
	guard := ban.NewGuard(ban.NewMemoryStore(), 2, time.Minute, logger)
	r := api.NewRouter(h, api.RateLimit(limiter, guard, logger))

	w := get(r, "/MarketPulse/about")
	require.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/MarketPulse/about")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, apperr.CodeRateLimited, errorCode(t, w.Body.Bytes()))

	w = get(r, "/MarketPulse/about")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	w = get(r, "/MarketPulse/about")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperr.CodeBanned, errorCode(t, w.Body.Bytes()))

	// health checks bypass the limiter
	w = get(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}
