// File: internal/service/session.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"note-keeper/internal/cache"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionCookieName 存放 session token 的 cookie 名稱
const SessionCookieName = "session"

const sessionKeyPrefix = "session:"

// 以下變數供測試覆寫
var (
	newSessionID    = uuid.NewString
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// Sessions 定義 handler 與 middleware 需要的 session 操作
type Sessions interface {
	Create(ctx context.Context, userID int) (string, error)
	Resolve(ctx context.Context, token string) (int, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

// SessionClaims 是 cookie 中 JWT 的負載；RegisteredClaims.ID 為 session ID
type SessionClaims struct {
	UserID int `json:"uid"`
	jwt.RegisteredClaims
}

// SessionManager 以 Redis 保存 session 紀錄，並以 HS256 簽署交給客戶端的 token。
// token 本身防竄改，Redis 紀錄讓登出可以立即失效。
type SessionManager struct {
	cache  cache.Cache
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(c cache.Cache, secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{cache: c, secret: []byte(secret), ttl: ttl}
}

func (m *SessionManager) TTL() time.Duration { return m.ttl }

func sessionKey(id string) string { return sessionKeyPrefix + id }

// Create 建立綁定 userID 的 session，回傳簽署後的 token
func (m *SessionManager) Create(ctx context.Context, userID int) (string, error) {
	id := newSessionID()
	if err := m.cache.Set(ctx, sessionKey(id), userID, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	now := timeNow()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		_ = m.cache.Del(ctx, sessionKey(id)).Err()
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func (m *SessionManager) parse(token string, opts ...jwt.ParserOption) (*SessionClaims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(timeNow))
	parsed, err := parseWithClaims(token, &SessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// Resolve 驗證 token 並回傳 user ID。
// token 無效、過期或已登出時回傳 ErrUnauthenticated；Redis 故障則回傳其他錯誤。
func (m *SessionManager) Resolve(ctx context.Context, token string) (int, error) {
	if token == "" {
		return 0, ErrUnauthenticated
	}
	claims, err := m.parse(token)
	if err != nil {
		return 0, ErrUnauthenticated
	}

	userID, err := m.cache.Get(ctx, sessionKey(claims.ID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrUnauthenticated
		}
		return 0, fmt.Errorf("resolve session: %w", err)
	}
	if userID != claims.UserID {
		return 0, ErrUnauthenticated
	}
	return userID, nil
}

// Destroy 刪除 token 對應的 session；token 無法解析時視為已無 session。
// 過期的 token 仍可登出，以清除殘留紀錄。
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := m.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	if err := m.cache.Del(ctx, sessionKey(claims.ID)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
