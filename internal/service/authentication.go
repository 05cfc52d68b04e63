// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken token 簽章錯誤、格式錯誤、過期或角色未知
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCredentials 帳號或密碼錯誤，兩者不區分
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var parseWithClaims = jwt.ParseWithClaims

// Claims 定義 JWT 負載內容
type Claims struct {
	ID       int        `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// TokenIssuer 持有簽章密鑰與有效期限，main 建立一次後注入
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueAccessToken 依據使用者資訊產生 HS256 JWT
func (i *TokenIssuer) IssueAccessToken(user model.User) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("JWT_SECRET not set")
	}
	if !user.Role.Valid() {
		return "", fmt.Errorf("unknown role %q", user.Role)
	}

	now := i.now()
	claims := Claims{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// VerifyAccessToken 驗證並解析 JWT，任何失敗都回傳 ErrInvalidToken
func (i *TokenIssuer) VerifyAccessToken(tokenString string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, fmt.Errorf("%w: JWT_SECRET not set", ErrInvalidToken)
	}

	token, err := parseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	return claims, nil
}

// AuthenticateUser 比對明文密碼，成功回傳使用者
func AuthenticateUser(ctx context.Context, hasher *Hasher, user model.User, password string) (*model.User, error) {
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := hasher.Compare(ctx, user.PasswordHash, password); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
