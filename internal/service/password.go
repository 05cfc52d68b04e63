// File: internal/service/password.go
package service

import (
	"context"

	"inkwell/internal/worker"

	"golang.org/x/crypto/bcrypt"
)

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// MaxPasswordBytes bcrypt 只看前 72 bytes，超過部分截斷
const MaxPasswordBytes = 72

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}

// HashPassword 接收明文密碼，回傳 bcrypt 哈希字串
func HashPassword(password string, cost int) (string, error) {
	hashBytes, err := bcryptGenerateFromPassword(truncate(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// ComparePassword 比對明文密碼與 bcrypt 哈希，成功回傳 nil，失敗則回傳錯誤
func ComparePassword(hash, password string) error {
	return bcryptCompareHashAndPassword([]byte(hash), truncate(password))
}

// Hasher 把 bcrypt 丟進 worker pool 執行，避免大量登入同時吃滿 CPU
type Hasher struct {
	pool worker.Pool
	cost int
}

// NewHasher pool 為 nil 時直接在呼叫端 goroutine 執行
func NewHasher(pool worker.Pool, cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{pool: pool, cost: cost}
}

func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	var hash string
	err := h.run(ctx, func() error {
		var err error
		hash, err = HashPassword(password, h.cost)
		return err
	})
	if err != nil {
		return "", err
	}
	return hash, nil
}

func (h *Hasher) Compare(ctx context.Context, hash, password string) error {
	return h.run(ctx, func() error {
		return ComparePassword(hash, password)
	})
}

func (h *Hasher) run(ctx context.Context, fn func() error) error {
	if h.pool == nil {
		return fn()
	}
	done := make(chan error, 1)
	if err := h.pool.Submit(ctx, func() { done <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
