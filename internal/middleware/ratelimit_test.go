package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"

	"github.com/clearpay/ledger/internal/config"
	"github.com/clearpay/ledger/internal/services"
)

func testConfig() *config.RateLimitConfig {
	return &config.RateLimitConfig{
		Limit:     2,
		Window:    time.Minute,
		KeyHeader: "X-Client-Id",
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("allows request under the limit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		limiter := services.NewRateLimiter(client, 2, time.Minute)

		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate:client-a").SetVal(1)
		mock.ExpectTTL("rate:client-a").SetVal(time.Minute)
		mock.ExpectTxPipelineExec()

		req := httptest.NewRequest("GET", "/transfers", nil)
		req.Header.Set("X-Client-Id", "client-a")
		w := httptest.NewRecorder()

		RateLimit(limiter, testConfig())(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects request over the limit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		limiter := services.NewRateLimiter(client, 2, time.Minute)

		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate:client-a").SetVal(3)
		mock.ExpectTTL("rate:client-a").SetVal(30 * time.Second)
		mock.ExpectTxPipelineExec()

		req := httptest.NewRequest("GET", "/transfers", nil)
		req.Header.Set("X-Client-Id", "client-a")
		w := httptest.NewRecorder()

		RateLimit(limiter, testConfig())(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to remote address without the client header", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		limiter := services.NewRateLimiter(client, 2, time.Minute)

		req := httptest.NewRequest("GET", "/transfers", nil)
		req.RemoteAddr = "10.0.0.7:51234"

		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate:10.0.0.7:51234").SetVal(1)
		mock.ExpectTTL("rate:10.0.0.7:51234").SetVal(time.Minute)
		mock.ExpectTxPipelineExec()

		w := httptest.NewRecorder()
		RateLimit(limiter, testConfig())(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("passes through with no limiter configured", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/transfers", nil)
		w := httptest.NewRecorder()

		RateLimit(nil, testConfig())(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("fails open when the limiter store errors", func(t *testing.T) {
		// A mock with no registered expectations makes every command fail,
		// standing in for an unreachable Redis.
		client, _ := redismock.NewClientMock()
		limiter := services.NewRateLimiter(client, 2, time.Minute)

		req := httptest.NewRequest("GET", "/transfers", nil)
		req.Header.Set("X-Client-Id", "client-a")
		w := httptest.NewRecorder()

		RateLimit(limiter, testConfig())(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Remaining"))
	})
}
