package store

import (
	"context"

	"inkwell/internal/database"
	"inkwell/internal/model"
)

// CreateUser 寫入使用者，PasswordHash 必須已經雜湊過
func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	row := db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, wrap("CreateUser", err)
	}
	return u, nil
}

// GetUserByEmail 登入用，會帶出 password_hash
func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, role, created_at
		 FROM users WHERE email = $1`,
		email,
	)
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	); err != nil {
		return nil, wrap("GetUserByEmail", err)
	}
	return u, nil
}

// GetUserByID 不回傳 password_hash
func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT id, username, email, role, created_at
		 FROM users WHERE id = $1`,
		userID,
	)
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.CreatedAt,
	); err != nil {
		return nil, wrap("GetUserByID", err)
	}
	return u, nil
}

func EmailExists(ctx context.Context, db database.DB, email string) (bool, error) {
	var exists bool
	row := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, wrap("EmailExists", err)
	}
	return exists, nil
}
