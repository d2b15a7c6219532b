package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type ctxKey int

const identityKey ctxKey = iota

// RevocationChecker reports whether a token id was signed out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Accounts loads the stored profile behind a token subject.
type Accounts interface {
	Get(ctx context.Context, uid string) (models.User, error)
}

type Middleware struct {
	tokens  *Tokens
	revoked RevocationChecker
	mylog   logger.Logger
}

func NewMiddleware(tokens *Tokens, revoked RevocationChecker, mylog logger.Logger) *Middleware {
	return &Middleware{tokens: tokens, revoked: revoked, mylog: mylog}
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Optional attaches the caller's identity when a valid token is present and
// lets anonymous requests through.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearer(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := m.verify(r.Context(), raw)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Require rejects requests without a valid token.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		raw := bearer(r)
		if raw == "" {
			httpx.Error(w, http.StatusUnauthorized, ErrMissingToken)
			return
		}
		id, err := m.verify(r.Context(), raw)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireStoredRole checks role against the caller's stored profile rather
// than the token claim, so a demoted or deleted account loses access at once.
// It must run after Require.
func (m *Middleware) RequireStoredRole(users Accounts, role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, ErrMissingToken)
				return
			}
			u, err := users.Get(r.Context(), id.UID)
			if errors.Is(err, store.ErrNotFound) {
				httpx.Error(w, http.StatusUnauthorized, ErrInvalidToken)
				return
			}
			if err != nil {
				m.mylog.Action("role_check_failed").Error("Failed to load account", err, "user_id", id.UID)
				httpx.Error(w, http.StatusInternalServerError, errors.New("internal server error"))
				return
			}
			if u.Role != role {
				m.mylog.Action("role_check_denied").Info("Stored role does not grant access",
					"user_id", id.UID, "token_role", string(id.Role), "stored_role", string(u.Role))
				httpx.Error(w, http.StatusForbidden, ErrForbidden)
				return
			}
			id.Role = u.Role
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func (m *Middleware) verify(ctx context.Context, raw string) (Identity, error) {
	id, err := m.tokens.Parse(raw)
	if err != nil {
		return Identity{}, err
	}
	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(ctx, id.TokenID)
		if err != nil {
			m.mylog.Action("revocation_check_failed").Error("Failed to check token revocation", err)
			return Identity{}, ErrInvalidToken
		}
		if revoked {
			return Identity{}, ErrInvalidToken
		}
	}
	return id, nil
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
