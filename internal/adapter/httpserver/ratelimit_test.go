package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/memorytrail/internal/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRemoteAddr = "127.0.0.1:41234"

func limitedHandler(ratePerSecond float64, burst int) echo.HandlerFunc {
	mw := newRateLimiter(ratePerSecond, burst)
	return ErrorHandlingMiddleware()(mw(func(c echo.Context) error {
		return c.String(http.StatusAccepted, "ok")
	}))
}

func postEvent(t *testing.T, e *echo.Echo, handler echo.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))
	return rec
}

func TestRateLimiterAllowsRequestsUnderLimit(t *testing.T) {
	e := echo.New()
	handler := limitedHandler(10, 3)

	for range 3 {
		rec := postEvent(t, e, handler, testRemoteAddr)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	}
}

func TestRateLimiterBlocksExcessiveRequests(t *testing.T) {
	e := echo.New()
	handler := limitedHandler(0.01, 1)

	rec := postEvent(t, e, handler, testRemoteAddr)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = postEvent(t, e, handler, testRemoteAddr)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rate limit exceeded", resp.Error)
	assert.Equal(t, apperrors.TypeRateLimited, resp.Type)
}

func TestRateLimiterDifferentClientsAreIndependent(t *testing.T) {
	e := echo.New()
	handler := limitedHandler(0.01, 1)

	rec := postEvent(t, e, handler, testRemoteAddr)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = postEvent(t, e, handler, "127.0.0.2:5678")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = postEvent(t, e, handler, testRemoteAddr)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
