package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"shop-platform/internal/model"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (model.AuthUser, error)
}

type contextKey string

const authUserContextKey contextKey = "auth_user"

type AuthMiddleware struct {
	validator  tokenValidator
	cookieName string
}

func NewAuthMiddleware(validator tokenValidator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{validator: validator, cookieName: cookieName}
}

// RequireAuth runs the fixed pipeline extract → normalize → verify →
// attach identity. A token cookie overrides any Authorization header; the
// header alone is used when no cookie is present.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.Authenticate(r)
		if err != nil {
			writeUnauthorized(w, "missing or invalid credentials")
			return
		}

		ctx := context.WithValue(r.Context(), authUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticate resolves the request's effective token to a user identity.
// Exposed for handlers that redirect instead of returning 401.
func (m *AuthMiddleware) Authenticate(r *http.Request) (model.AuthUser, error) {
	m.normalize(r)

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return model.AuthUser{}, model.ErrUnauthorized
	}

	token := strings.TrimSpace(header[7:])
	if token == "" {
		return model.AuthUser{}, model.ErrUnauthorized
	}

	return m.validator.ValidateToken(r.Context(), token)
}

// normalize copies a cookie token into the Authorization header, replacing
// any existing header value. When cookie and header disagree, the cookie is
// the authoritative credential.
func (m *AuthMiddleware) normalize(r *http.Request) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return
	}
	r.Header.Set("Authorization", "Bearer "+cookie.Value)
}

func UserFromContext(ctx context.Context) (model.AuthUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(model.AuthUser)
	return user, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: &model.APIError{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	})
}
