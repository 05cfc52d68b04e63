package store

import (
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound 查無資料
	ErrNotFound = errors.New("not found")
	// ErrConflict 違反唯一性限制 (SQLSTATE 23505)
	ErrConflict = errors.New("conflict")
)

const uniqueViolation = "23505"

// psql 使用 $n 佔位符的 squirrel builder
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// wrap 為錯誤加上函式名稱，並轉成 ErrNotFound / ErrConflict
func wrap(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
