package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type revokedSet map[string]bool

func (s revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return s[jti], nil
}

func TestMessage_French(t *testing.T) {
	assert.Equal(t, "Aucun compte trouvé avec cette adresse email", Message(ErrUserNotFound))
	assert.Equal(t, "Mot de passe incorrect", Message(fmt.Errorf("sign in: %w", ErrWrongPassword)))
	assert.Equal(t, "Cette adresse email est déjà utilisée", Message(ErrEmailInUse))
	assert.Equal(t, "Le mot de passe est trop faible", Message(ErrWeakPassword))
	assert.Equal(t, "Adresse email invalide", Message(ErrInvalidEmail))
	assert.Equal(t, "Trop de tentatives. Veuillez réessayer plus tard", Message(ErrTooManyRequests))
	assert.Equal(t, "Une erreur est survenue", Message(errors.New("network down")))
}

func TestPasswords(t *testing.T) {
	_, err := HashPassword("12345")
	assert.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("myBlueberry1")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "myBlueberry1"))
	assert.ErrorIs(t, CheckPassword(hash, "other"), ErrWrongPassword)
}

func TestNormalizeEmail(t *testing.T) {
	got, err := NormalizeEmail("  Awa@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "awa@example.com", got)

	for _, bad := range []string{"", "awa", "Awa <awa@example.com>", "awa@"} {
		_, err := NormalizeEmail(bad)
		assert.ErrorIs(t, err, ErrInvalidEmail, bad)
	}
}

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, issued, err := tokens.Issue(models.User{UID: "u1", Email: "a@b.c", Role: models.RoleAdmin})
	require.NoError(t, err)

	id, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, issued.TokenID, id.TokenID)
	assert.Equal(t, "u1", id.UID)
	assert.True(t, id.IsAdmin())

	_, err = NewTokens("other", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type accounts map[string]models.User

func (a accounts) Get(_ context.Context, uid string) (models.User, error) {
	u, ok := a[uid]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func adminOnly(t *testing.T, revoked revokedSet, users accounts) (http.Handler, *Tokens) {
	t.Helper()
	tokens := NewTokens("secret", time.Hour)
	mw := NewMiddleware(tokens, revoked, logger.NewNop())
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	return mw.Require(mw.RequireStoredRole(users, models.RoleAdmin)(ok)), tokens
}

func call(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireStoredRole_AdminGate(t *testing.T) {
	revoked := revokedSet{}
	users := accounts{
		"c1": {UID: "c1", Role: models.RoleClient},
		"a1": {UID: "a1", Role: models.RoleAdmin},
	}
	h, tokens := adminOnly(t, revoked, users)

	assert.Equal(t, http.StatusUnauthorized, call(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(h, "garbage").Code)

	client, _, err := tokens.Issue(users["c1"])
	require.NoError(t, err)
	rec := call(h, client)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Accès refusé")

	admin, adminID, err := tokens.Issue(users["a1"])
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, call(h, admin).Code)

	revoked[adminID.TokenID] = true
	assert.Equal(t, http.StatusUnauthorized, call(h, admin).Code)
}

func TestRequireStoredRole_IgnoresStaleClaim(t *testing.T) {
	users := accounts{"a1": {UID: "a1", Role: models.RoleAdmin}}
	h, tokens := adminOnly(t, revokedSet{}, users)

	admin, _, err := tokens.Issue(users["a1"])
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, call(h, admin).Code)

	users["a1"] = models.User{UID: "a1", Role: models.RoleClient}
	assert.Equal(t, http.StatusForbidden, call(h, admin).Code, "demoted")

	delete(users, "a1")
	assert.Equal(t, http.StatusUnauthorized, call(h, admin).Code, "deleted")

	promoted, _, err := tokens.Issue(models.User{UID: "c9", Role: models.RoleClient})
	require.NoError(t, err)
	users["c9"] = models.User{UID: "c9", Role: models.RoleAdmin}
	assert.Equal(t, http.StatusNoContent, call(h, promoted).Code, "promoted")
}

func TestOptional_AnonymousPassesThrough(t *testing.T) {
	mw := NewMiddleware(NewTokens("secret", time.Hour), nil, logger.NewNop())
	var seen bool
	h := mw.Optional(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, seen = FromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.False(t, seen)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.True(t, rl.Allow("10.0.0.2"))
}
