package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	redispkg "hgigs.backend/pkg/redis"
)

func startMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)

	cli := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() { _ = cli.Close() })
	return srv
}

func idempotentRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(CallerAddressKey, testCaller)
		c.Next()
	})
	r.Use(IdempotencyMiddleware())
	r.POST("/x", handler)
	return r
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func storageKey(key string) string {
	return "idempotency:" + testCaller.Hex() + ":" + key
}

func TestIdempotencyMiddleware_NoHeaderPassthrough(t *testing.T) {
	calls := 0
	r := idempotentRouter(func(c *gin.Context) { calls++; c.Status(http.StatusNoContent) })

	require.Equal(t, http.StatusNoContent, postWithKey(r, "").Code)
	require.Equal(t, http.StatusNoContent, postWithKey(r, "").Code)
	require.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_RedisErrorPassthrough(t *testing.T) {
	redispkg.SetClient(redisv9.NewClient(&redisv9.Options{Addr: "127.0.0.1:0"}))

	r := idempotentRouter(func(c *gin.Context) { c.Status(http.StatusAccepted) })
	require.Equal(t, http.StatusAccepted, postWithKey(r, "idem-key").Code)
}

func TestIdempotencyMiddleware_ProcessingConflict(t *testing.T) {
	srv := startMiniRedis(t)
	require.NoError(t, srv.Set(storageKey("key-1"), "processing"))

	r := idempotentRouter(func(c *gin.Context) { c.Status(http.StatusCreated) })
	w := postWithKey(r, "key-1")

	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "IDEMPOTENCY_CONFLICT")
}

func TestIdempotencyMiddleware_LegacyBodyReplay(t *testing.T) {
	srv := startMiniRedis(t)
	require.NoError(t, srv.Set(storageKey("key-2"), `{"ok":true}`))

	r := idempotentRouter(func(c *gin.Context) { c.Status(http.StatusCreated) })
	w := postWithKey(r, "key-2")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "true", w.Header().Get("X-Idempotency-Hit"))
	require.Equal(t, `{"ok":true}`, w.Body.String())
}

func TestIdempotencyMiddleware_StoresAndReplaysSuccess(t *testing.T) {
	startMiniRedis(t)

	calls := 0
	r := idempotentRouter(func(c *gin.Context) {
		calls++
		c.String(http.StatusCreated, `{"id":1}`)
	})

	w := postWithKey(r, "key-3")
	require.Equal(t, http.StatusCreated, w.Code)

	w2 := postWithKey(r, "key-3")
	require.Equal(t, http.StatusCreated, w2.Code)
	require.Equal(t, "true", w2.Header().Get("X-Idempotency-Hit"))
	require.Equal(t, `{"id":1}`, w2.Body.String())
	require.Equal(t, 1, calls)
}

func TestIdempotencyMiddleware_KeysAreScopedPerCaller(t *testing.T) {
	startMiniRedis(t)
	gin.SetMode(gin.TestMode)

	calls := 0
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Other") != "" {
			c.Set(CallerAddressKey, common.HexToAddress("0x00000000000000000000000000000000000000c1"))
		} else {
			c.Set(CallerAddressKey, testCaller)
		}
		c.Next()
	})
	r.Use(IdempotencyMiddleware())
	r.POST("/x", func(c *gin.Context) { calls++; c.Status(http.StatusCreated) })

	require.Equal(t, http.StatusCreated, postWithKey(r, "shared").Code)

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(IdempotencyHeader, "shared")
	req.Header.Set("X-Other", "1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_DeletesKeyOnFailure(t *testing.T) {
	startMiniRedis(t)

	r := idempotentRouter(func(c *gin.Context) {
		c.String(http.StatusConflict, "already paid")
	})
	require.Equal(t, http.StatusConflict, postWithKey(r, "key-4").Code)

	_, err := redispkg.Get(context.Background(), storageKey("key-4"))
	require.ErrorIs(t, err, redisv9.Nil)
}

func TestIdempotencyMiddleware_WithHookedRedis(t *testing.T) {
	origGet, origSet, origSetNX, origDel := redisGet, redisSet, redisSetNX, redisDel
	t.Cleanup(func() {
		redisGet, redisSet, redisSetNX, redisDel = origGet, origSet, origSetNX, origDel
	})

	t.Run("lock not acquired", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "", redisv9.Nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return false, nil }

		r := idempotentRouter(func(c *gin.Context) { c.Status(http.StatusCreated) })
		require.Equal(t, http.StatusConflict, postWithKey(r, "k").Code)
	})

	t.Run("lock error", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "", redisv9.Nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) {
			return false, errors.New("down")
		}

		r := idempotentRouter(func(c *gin.Context) { c.Status(http.StatusCreated) })
		require.Equal(t, http.StatusConflict, postWithKey(r, "k").Code)
	})

	t.Run("store failure still returns response", func(t *testing.T) {
		delCalled := false
		redisGet = func(context.Context, string) (string, error) { return "", redisv9.Nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return true, nil }
		redisSet = func(context.Context, string, interface{}, time.Duration) error { return errors.New("full") }
		redisDel = func(context.Context, string) error { delCalled = true; return nil }

		r := idempotentRouter(func(c *gin.Context) { c.String(http.StatusCreated, `{"id":9}`) })
		w := postWithKey(r, "k")
		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, `{"id":9}`, w.Body.String())
		require.False(t, delCalled)
	})
}
