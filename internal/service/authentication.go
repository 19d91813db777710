// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"

	"note-keeper/internal/database"
	"note-keeper/internal/model"
	"note-keeper/internal/store"
)

var (
	// ErrInvalidCredentials 不區分 email 不存在或密碼錯誤
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// 以下變數供測試覆寫
var (
	createUser     = store.CreateUser
	getUserByEmail = store.GetUserByEmail
)

// AuthenticateUser 以 bcrypt 比對明文密碼，不暴露儲存的哈希
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Register 哈希密碼並建立使用者；email 已存在時回傳 store.ErrDuplicateEmail
func Register(ctx context.Context, db database.Querier, email, password, name string) (*model.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("Register: hash password: %w", err)
	}
	user, err := createUser(ctx, db, &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	})
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}
	return user, nil
}

// Login 驗證 email / 密碼並回傳使用者。
// 查無使用者與密碼錯誤都回傳 ErrInvalidCredentials。
func Login(ctx context.Context, db database.Querier, email, password string) (*model.User, error) {
	user, err := getUserByEmail(ctx, db, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("Login: %w", err)
	}
	if err := AuthenticateUser(ctx, *user, password); err != nil {
		return nil, err
	}
	return user, nil
}
