package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"note-keeper/internal/database"
	"note-keeper/internal/model"
	"note-keeper/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	createUser = store.CreateUser
	getUserByEmail = store.GetUserByEmail
	newSessionID = uuid.NewString
	timeNow = time.Now
	parseWithClaims = jwt.ParseWithClaims
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restoreGlobals)
	pwd := "secret"
	hash, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, pwd, hash)
	require.NoError(t, ComparePassword(hash, pwd))

	// 每次產生的 salt 不同
	hash2, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, hash, hash2)

	bcryptGenerateFromPassword = func(_ []byte, _ int) ([]byte, error) {
		return nil, errors.New("gen")
	}
	_, err = HashPassword(pwd)
	require.Error(t, err)
}

func TestHashPasswordLength(t *testing.T) {
	t.Cleanup(restoreGlobals)
	_, err := HashPassword(strings.Repeat("p", 72))
	require.NoError(t, err)

	_, err = HashPassword(strings.Repeat("p", 73))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestAuthenticateUser(t *testing.T) {
	t.Cleanup(restoreGlobals)
	hash, _ := HashPassword("pw")
	u := model.User{PasswordHash: hash}
	require.NoError(t, AuthenticateUser(context.Background(), u, "pw"))
	require.ErrorIs(t, AuthenticateUser(context.Background(), u, "bad"), ErrInvalidCredentials)
	require.ErrorIs(t, AuthenticateUser(context.Background(), model.User{}, ""), ErrInvalidCredentials)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("stores hash not plaintext", func(t *testing.T) {
		t.Cleanup(restoreGlobals)
		var stored model.User
		createUser = func(_ context.Context, _ database.Querier, u *model.User) (*model.User, error) {
			stored = *u
			u.ID = 1
			return u, nil
		}
		u, err := Register(ctx, nil, "alice@example.com", "pw123", "Alice")
		require.NoError(t, err)
		require.Equal(t, 1, u.ID)
		require.Equal(t, "alice@example.com", stored.Email)
		require.Equal(t, "Alice", stored.Name)
		require.NotEqual(t, "pw123", stored.PasswordHash)
		require.NoError(t, ComparePassword(stored.PasswordHash, "pw123"))
	})

	t.Run("duplicate email regardless of password and name", func(t *testing.T) {
		t.Cleanup(restoreGlobals)
		seen := map[string]bool{}
		createUser = func(_ context.Context, _ database.Querier, u *model.User) (*model.User, error) {
			if seen[u.Email] {
				return nil, store.ErrDuplicateEmail
			}
			seen[u.Email] = true
			return u, nil
		}
		_, err := Register(ctx, nil, "alice@example.com", "pw123", "Alice")
		require.NoError(t, err)
		_, err = Register(ctx, nil, "alice@example.com", "other", "Someone Else")
		require.ErrorIs(t, err, store.ErrDuplicateEmail)
	})

	t.Run("password over bcrypt limit", func(t *testing.T) {
		t.Cleanup(restoreGlobals)
		createUser = func(context.Context, database.Querier, *model.User) (*model.User, error) {
			t.Fatal("createUser must not be called")
			return nil, nil
		}
		_, err := Register(ctx, nil, "a@b.c", strings.Repeat("é", 37), "A")
		require.ErrorIs(t, err, ErrPasswordTooLong)
	})

	t.Run("hash error", func(t *testing.T) {
		t.Cleanup(restoreGlobals)
		bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) { return nil, errors.New("gen") }
		_, err := Register(ctx, nil, "a@b.c", "pw", "A")
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, _ := HashPassword("pw123")

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restoreGlobals)
		getUserByEmail = func(context.Context, database.Querier, string) (*model.User, error) {
			return &model.User{ID: 3, Email: "alice@example.com", PasswordHash: hash}, nil
		}
		u, err := Login(ctx, nil, "alice@example.com", "pw123")
		require.NoError(t, err)
		require.Equal(t, 3, u.ID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		t.Cleanup(restoreGlobals)
		getUserByEmail = func(_ context.Context, _ database.Querier, email string) (*model.User, error) {
			if email == "alice@example.com" {
				return &model.User{ID: 3, PasswordHash: hash}, nil
			}
			return nil, store.ErrNotFound
		}
		_, errWrong := Login(ctx, nil, "alice@example.com", "nope")
		_, errMissing := Login(ctx, nil, "bob@example.com", "pw123")
		require.ErrorIs(t, errWrong, ErrInvalidCredentials)
		require.ErrorIs(t, errMissing, ErrInvalidCredentials)
		require.Equal(t, errWrong.Error(), errMissing.Error())
	})

	t.Run("store failure", func(t *testing.T) {
		t.Cleanup(restoreGlobals)
		getUserByEmail = func(context.Context, database.Querier, string) (*model.User, error) {
			return nil, errors.New("conn refused")
		}
		_, err := Login(ctx, nil, "alice@example.com", "pw123")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}
