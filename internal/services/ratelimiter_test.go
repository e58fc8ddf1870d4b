package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("first request arms the window and is allowed", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		limiter := NewRateLimiter(client, 10, time.Minute)

		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate:client1").SetVal(1)
		mock.ExpectTTL("rate:client1").SetVal(time.Duration(-1))
		mock.ExpectTxPipelineExec()
		mock.ExpectExpire("rate:client1", time.Minute).SetVal(true)

		allowed, remaining, err := limiter.Allow(ctx, "client1")
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(9), remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("request at the limit is still allowed", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		limiter := NewRateLimiter(client, 10, time.Minute)

		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate:client1").SetVal(10)
		mock.ExpectTTL("rate:client1").SetVal(30 * time.Second)
		mock.ExpectTxPipelineExec()

		allowed, remaining, err := limiter.Allow(ctx, "client1")
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(0), remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("eleventh request in the window is denied", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		limiter := NewRateLimiter(client, 10, time.Minute)

		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate:client1").SetVal(11)
		mock.ExpectTTL("rate:client1").SetVal(30 * time.Second)
		mock.ExpectTxPipelineExec()

		allowed, remaining, err := limiter.Allow(ctx, "client1")
		assert.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, int64(0), remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired key restarts the count", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		limiter := NewRateLimiter(client, 10, time.Minute)

		// after expiry the counter no longer exists; INCR recreates it and
		// TTL reports -2, so the window is re-armed
		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate:client1").SetVal(1)
		mock.ExpectTTL("rate:client1").SetVal(time.Duration(-2))
		mock.ExpectTxPipelineExec()
		mock.ExpectExpire("rate:client1", time.Minute).SetVal(true)

		allowed, remaining, err := limiter.Allow(ctx, "client1")
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(9), remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keys are scoped per client", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		limiter := NewRateLimiter(client, 10, time.Minute)

		mock.ExpectTxPipeline()
		mock.ExpectIncr("rate:client2").SetVal(3)
		mock.ExpectTTL("rate:client2").SetVal(10 * time.Second)
		mock.ExpectTxPipelineExec()

		allowed, remaining, err := limiter.Allow(ctx, "client2")
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(7), remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
