package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"inkwell/internal/model"
	"inkwell/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	parseWithClaims = jwt.ParseWithClaims
}

func fixedIssuer(secret string, ttl time.Duration, at time.Time) *TokenIssuer {
	i := NewTokenIssuer(secret, ttl)
	i.now = func() time.Time { return at }
	return i
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restoreGlobals)
	hash, err := HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash)
	require.NoError(t, ComparePassword(hash, "secret"))
	require.Error(t, ComparePassword(hash, "other"))

	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) { return nil, errors.New("gen") }
	_, err = HashPassword("secret", bcrypt.MinCost)
	require.Error(t, err)
}

func TestHashPasswordOver72Bytes(t *testing.T) {
	long := strings.Repeat("x", 73)
	hash, err := HashPassword(long, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, ComparePassword(hash, long))
	// 只有前 72 bytes 參與比對
	require.NoError(t, ComparePassword(hash, strings.Repeat("x", 72)+"y"))
	require.Error(t, ComparePassword(hash, strings.Repeat("x", 71)))
}

func TestHasherThroughPool(t *testing.T) {
	p := worker.NewPool(2)
	defer p.Stop()
	h := NewHasher(p, bcrypt.MinCost)

	hash, err := h.Hash(context.Background(), "pw123456")
	require.NoError(t, err)
	require.NoError(t, h.Compare(context.Background(), hash, "pw123456"))
	require.Error(t, h.Compare(context.Background(), hash, "nope"))
}

func TestHasherStoppedPool(t *testing.T) {
	p := worker.NewPool(1)
	p.Stop()
	h := NewHasher(p, bcrypt.MinCost)
	_, err := h.Hash(context.Background(), "pw")
	require.ErrorIs(t, err, worker.ErrStopped)
}

func TestNewHasherDefaultCost(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewHasher(nil, 0).cost)
}

func TestAuthenticateUser(t *testing.T) {
	h := NewHasher(nil, bcrypt.MinCost)
	hash, err := h.Hash(context.Background(), "pw")
	require.NoError(t, err)
	u := model.User{ID: 1, PasswordHash: hash}

	got, err := AuthenticateUser(context.Background(), h, u, "pw")
	require.NoError(t, err)
	require.Equal(t, 1, got.ID)

	_, err = AuthenticateUser(context.Background(), h, u, "bad")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = AuthenticateUser(context.Background(), h, model.User{}, "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueAndVerify(t *testing.T) {
	t.Cleanup(restoreGlobals)
	issuer := NewTokenIssuer("s3cret", time.Minute)

	for _, u := range []model.User{
		{ID: 5, Username: "root", Role: model.RoleAdmin},
		{ID: 6, Username: "reader", Role: model.RoleUser},
	} {
		tok, err := issuer.IssueAccessToken(u)
		require.NoError(t, err)

		claims, err := issuer.VerifyAccessToken(tok)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.ID)
		require.Equal(t, u.Username, claims.Username)
		require.Equal(t, u.Role, claims.Role)
		require.Equal(t, u.IsAdmin(), claims.IsAdmin())
		require.Equal(t, strconv.Itoa(u.ID), claims.Subject)
	}
}

func TestIssueAccessTokenErrors(t *testing.T) {
	_, err := NewTokenIssuer("", time.Minute).IssueAccessToken(model.User{Role: model.RoleUser})
	require.Error(t, err)

	_, err = NewTokenIssuer("s", time.Minute).IssueAccessToken(model.User{Role: "editor"})
	require.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	t0 := time.Date(2026, 10, 14, 12, 0, 0, 500, time.UTC)

	// 有效期限為 0：簽發當下即過期
	zero := fixedIssuer("s", 0, t0)
	tok, err := zero.IssueAccessToken(model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)
	_, err = zero.VerifyAccessToken(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	// 一秒後過期
	short := fixedIssuer("s", time.Second, t0)
	tok, err = short.IssueAccessToken(model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)
	_, err = short.VerifyAccessToken(tok)
	require.NoError(t, err)

	short.now = func() time.Time { return t0.Add(2 * time.Second) }
	_, err = short.VerifyAccessToken(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyForeignSecret(t *testing.T) {
	tok, err := NewTokenIssuer("one", time.Hour).IssueAccessToken(model.User{ID: 1, Role: model.RoleAdmin})
	require.NoError(t, err)
	_, err = NewTokenIssuer("two", time.Hour).VerifyAccessToken(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejects(t *testing.T) {
	t.Cleanup(restoreGlobals)
	issuer := NewTokenIssuer("s", time.Hour)

	_, err := NewTokenIssuer("", time.Hour).VerifyAccessToken("abc")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.VerifyAccessToken("invalid")
	require.ErrorIs(t, err, ErrInvalidToken)

	tokNone, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 1, "role": "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = issuer.VerifyAccessToken(tokNone)
	require.ErrorIs(t, err, ErrInvalidToken)

	// 角色不在 user/admin 之內
	forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:   1,
		Role: "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("s"))
	_, err = issuer.VerifyAccessToken(forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	// 缺少 exp
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: 1, Role: model.RoleAdmin}).SignedString([]byte("s"))
	_, err = issuer.VerifyAccessToken(noExp)
	require.ErrorIs(t, err, ErrInvalidToken)

	parseWithClaims = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: jwt.MapClaims{}, Valid: false}, nil
	}
	_, err = issuer.VerifyAccessToken("whatever")
	require.ErrorIs(t, err, ErrInvalidToken)
}
