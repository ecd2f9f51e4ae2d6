package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetcast/matching-server-go/internal/model"
)

const testSecret = "test-secret-0123456789-0123456789"

func signToken(t *testing.T, secret, subject, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r.Context())
		require.NotNil(t, identity)
		w.Header().Set("X-User-ID", identity.UserID)
		w.Header().Set("X-Role", string(identity.Role))
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid guest token passes identity through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/guest/matchings", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "guest-1", "guest"))
		rec := httptest.NewRecorder()

		mw.Handler(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "guest-1", rec.Header().Get("X-User-ID"))
		assert.Equal(t, "guest", rec.Header().Get("X-Role"))
	})

	t.Run("valid cast token carries the cast role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/cast/matchings", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "cast-1", "cast"))
		rec := httptest.NewRecorder()

		mw.Handler(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cast", rec.Header().Get("X-Role"))
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/guest/matchings", nil)
		rec := httptest.NewRecorder()

		mw.Handler(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/guest/matchings", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret-0123456789-012345678", "guest-1", "guest"))
		rec := httptest.NewRecorder()

		mw.Handler(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  "guest-1",
			"role": "guest",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/guest/matchings", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()

		mw.Handler(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/guest/matchings", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "admin-1", "admin"))
		rec := httptest.NewRecorder()

		mw.Handler(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token without subject is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/guest/matchings", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "", "guest"))
		rec := httptest.NewRecorder()

		mw.Handler(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-bearer authorization header is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/guest/matchings", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		mw.Handler(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetIdentity(t *testing.T) {
	t.Run("returns nil without identity in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, GetIdentity(req.Context()))
	})

	t.Run("role type survives the context round trip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		mw := NewAuthMiddleware(testSecret)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "cast-7", "cast"))
		rec := httptest.NewRecorder()

		var got *Identity
		mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetIdentity(r.Context())
		})).ServeHTTP(rec, req)

		require.NotNil(t, got)
		assert.Equal(t, model.RoleCast, got.Role)
	})
}
