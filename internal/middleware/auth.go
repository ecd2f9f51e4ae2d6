package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/meetcast/matching-server-go/internal/audit"
	"github.com/meetcast/matching-server-go/internal/model"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// Identity is what the external identity system resolved for the request:
// an authenticated user id and its role. Token issuance and verification of
// who the user is stay outside this service; we only decode what was issued.
type Identity struct {
	UserID string
	Role   model.Role
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityContextKey).(*Identity); ok {
		return identity
	}
	return nil
}

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

type identityClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Missing authentication token",
			})
			return
		}

		identity, err := m.parseToken(token)
		if err != nil {
			log.Warn().Err(err).Msg("auth middleware: invalid token attempt")
			audit.LogFromRequest(r, audit.Event{Type: audit.EventAuthFailure})
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Invalid token",
			})
			return
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) parseToken(token string) (*Identity, error) {
	var claims identityClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	role := model.Role(claims.Role)
	if role != model.RoleGuest && role != model.RoleCast {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return &Identity{UserID: claims.Subject, Role: role}, nil
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
