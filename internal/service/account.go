package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/database"
	"inkwell/internal/model"
	"inkwell/internal/store"
)

// ErrEmailTaken Email 已被註冊
var ErrEmailTaken = errors.New("email already registered")

var (
	emailExists    = store.EmailExists
	createUser     = store.CreateUser
	getUserByEmail = store.GetUserByEmail
)

// NormalizeEmail 去除空白並轉小寫，註冊與登入共用
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser 先檢查 Email 是否存在再雜湊密碼並寫入。
// 兩個同時註冊的請求可能都通過檢查，此時由 users.email 唯一索引擋下並同樣回傳 ErrEmailTaken。
func RegisterUser(ctx context.Context, db database.DB, hasher *Hasher, username, email, password string, role model.Role) (*model.User, error) {
	email = NormalizeEmail(email)
	exists, err := emailExists(ctx, db, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := createUser(ctx, db, &model.User{
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if errors.Is(err, store.ErrConflict) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin 依環境變數建立初始管理員，Email 已存在時不做任何事
func EnsureAdmin(ctx context.Context, db database.DB, hasher *Hasher, username, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	existing, err := getUserByEmail(ctx, db, NormalizeEmail(email))
	if err == nil {
		if !existing.IsAdmin() {
			slog.WarnContext(ctx, "bootstrap admin email belongs to a non-admin user", "email", existing.Email)
		}
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if username == "" {
		username = "admin"
	}
	u, err := RegisterUser(ctx, db, hasher, username, email, password, model.RoleAdmin)
	if err != nil && !errors.Is(err, ErrEmailTaken) {
		return err
	}
	if u != nil {
		slog.InfoContext(ctx, "bootstrap admin created", "id", u.ID, "email", u.Email)
	}
	return nil
}
