package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"note-keeper/internal/cache"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerLifecycle(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	c := cache.NewMapCache()
	m := NewSessionManager(c, "s3cret", time.Hour)
	newSessionID = func() string { return "sid-1" }

	tok, err := m.Create(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "42", c.Data["session:sid-1"])
	require.Equal(t, time.Hour, m.TTL())

	uid, err := m.Resolve(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, 42, uid)

	require.NoError(t, m.Destroy(ctx, tok))
	require.NotContains(t, c.Data, "session:sid-1")

	_, err = m.Resolve(ctx, tok)
	require.ErrorIs(t, err, ErrUnauthenticated)

	// 重複登出不是錯誤
	require.NoError(t, m.Destroy(ctx, tok))
}

func TestSessionManagerCreateErrors(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	fc := &cache.FakeCache{
		SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", errors.New("set"))
		},
	}
	_, err := NewSessionManager(fc, "s", time.Hour).Create(ctx, 1)
	require.Error(t, err)
}

func TestSessionManagerResolveRejects(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	c := cache.NewMapCache()
	m := NewSessionManager(c, "s3cret", time.Hour)

	t.Run("empty", func(t *testing.T) {
		_, err := m.Resolve(ctx, "")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Resolve(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewSessionManager(c, "other", time.Hour)
		tok, err := other.Create(ctx, 1)
		require.NoError(t, err)
		_, err = m.Resolve(ctx, tok)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("none algorithm", func(t *testing.T) {
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
			UserID:           1,
			RegisteredClaims: jwt.RegisteredClaims{ID: "x"},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		c.Data["session:x"] = "1"
		_, err := m.Resolve(ctx, tok)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		timeNow = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		tok, err := m.Create(ctx, 1)
		require.NoError(t, err)
		timeNow = time.Now
		_, err = m.Resolve(ctx, tok)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("user id mismatch", func(t *testing.T) {
		newSessionID = func() string { return "sid-m" }
		tok, err := m.Create(ctx, 5)
		require.NoError(t, err)
		c.Data["session:sid-m"] = "6"
		_, err = m.Resolve(ctx, tok)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("invalid token from parser", func(t *testing.T) {
		parseWithClaims = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
			return &jwt.Token{Claims: &SessionClaims{}, Valid: false}, nil
		}
		_, err := m.Resolve(ctx, "whatever")
		require.ErrorIs(t, err, ErrUnauthenticated)
		parseWithClaims = jwt.ParseWithClaims
	})
}

func TestSessionManagerResolveBackendError(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	fc := &cache.FakeCache{
		SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("OK", nil)
		},
		GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("connection refused"))
		},
	}
	m := NewSessionManager(fc, "s", time.Hour)
	tok, err := m.Create(ctx, 1)
	require.NoError(t, err)

	_, err = m.Resolve(ctx, tok)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionManagerDestroy(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()

	t.Run("expired token still logs out", func(t *testing.T) {
		c := cache.NewMapCache()
		m := NewSessionManager(c, "s", time.Hour)
		newSessionID = func() string { return "old" }
		timeNow = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		tok, err := m.Create(ctx, 1)
		require.NoError(t, err)
		timeNow = time.Now
		require.NoError(t, m.Destroy(ctx, tok))
		require.NotContains(t, c.Data, "session:old")
	})

	t.Run("empty or garbage is a no-op", func(t *testing.T) {
		m := NewSessionManager(&cache.FakeCache{}, "s", time.Hour)
		require.NoError(t, m.Destroy(ctx, ""))
		require.NoError(t, m.Destroy(ctx, "garbage"))
	})

	t.Run("backend error", func(t *testing.T) {
		c := cache.NewMapCache()
		m := NewSessionManager(c, "s", time.Hour)
		tok, err := m.Create(ctx, 1)
		require.NoError(t, err)
		failing := NewSessionManager(&cache.FakeCache{
			DelFn: func(context.Context, ...string) *redis.IntCmd { return redis.NewIntResult(0, errors.New("del")) },
		}, "s", time.Hour)
		require.Error(t, failing.Destroy(ctx, tok))
	})
}
