package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"note-keeper/internal/database"
	"note-keeper/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeUserRow 支援兩種 Scan 呼叫場景：
// 1) len(dest)==5 → GetUserByID / GetUserByEmail
// 2) len(dest)==2 → CreateUser (id, created_at)
type fakeUserRow struct {
	scanErr error
	user    *model.User
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 5:
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Email
		*dest[2].(*string) = u.PasswordHash
		*dest[3].(*string) = u.Name
		*dest[4].(*time.Time) = u.CreatedAt
	case 2:
		*dest[0].(*int) = u.ID
		*dest[1].(*time.Time) = u.CreatedAt
	default:
		panic("fakeUserRow.Scan: unexpected dest count")
	}
	return nil
}

func userDB(row *fakeUserRow) *database.FakeDB {
	return &database.FakeDB{
		QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row { return row },
	}
}

/* ---------- 完整測試 ---------- */

func TestUserStore(t *testing.T) {
	now := time.Now().UTC()
	sample := &model.User{
		ID:           7,
		Email:        "alice@example.com",
		PasswordHash: "hash123",
		Name:         "Alice",
		CreatedAt:    now,
	}

	t.Run("GetUserByID success", func(t *testing.T) {
		u, err := GetUserByID(context.Background(), userDB(&fakeUserRow{user: sample}), 7)
		require.NoError(t, err)
		require.Equal(t, sample.Email, u.Email)
		require.Equal(t, "hash123", u.PasswordHash)
	})

	t.Run("GetUserByID not found", func(t *testing.T) {
		u, err := GetUserByID(context.Background(), userDB(&fakeUserRow{scanErr: pgx.ErrNoRows}), 999)
		require.ErrorIs(t, err, ErrNotFound)
		require.Nil(t, u)
	})

	t.Run("GetUserByEmail success", func(t *testing.T) {
		var gotArg any
		db := &database.FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				gotArg = args[0]
				return &fakeUserRow{user: sample}
			},
		}
		u, err := GetUserByEmail(context.Background(), db, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, 7, u.ID)
		require.Equal(t, "alice@example.com", gotArg)
	})

	t.Run("GetUserByEmail not found", func(t *testing.T) {
		_, err := GetUserByEmail(context.Background(), userDB(&fakeUserRow{scanErr: pgx.ErrNoRows}), "bob@example.com")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("GetUserByEmail db error", func(t *testing.T) {
		_, err := GetUserByEmail(context.Background(), userDB(&fakeUserRow{scanErr: errors.New("conn reset")}), "x")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("CreateUser success", func(t *testing.T) {
		newUser := &model.User{Email: "bob@example.com", PasswordHash: "pwdhash", Name: "Bob"}
		created, err := CreateUser(context.Background(), userDB(&fakeUserRow{user: &model.User{ID: 42, CreatedAt: now}}), newUser)
		require.NoError(t, err)
		require.Equal(t, 42, created.ID)
		require.Equal(t, "bob@example.com", created.Email)
		require.WithinDuration(t, now, created.CreatedAt, time.Second)
	})

	t.Run("CreateUser duplicate email", func(t *testing.T) {
		dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		_, err := CreateUser(context.Background(), userDB(&fakeUserRow{scanErr: dup}), &model.User{})
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("CreateUser error", func(t *testing.T) {
		_, err := CreateUser(context.Background(), userDB(&fakeUserRow{scanErr: errors.New("boom")}), &model.User{})
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrDuplicateEmail)
	})
}
