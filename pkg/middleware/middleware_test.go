package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/remerata/bookcloud/pkg/auth"
	md "github.com/remerata/bookcloud/pkg/middleware"
)

// next echoes the auth context so tests can assert what the middleware
// propagated.
func next(c echo.Context) error {
	ctx := c.Request().Context()
	return c.String(http.StatusOK, auth.UserName(ctx)+":"+auth.Role(ctx))
}

func newContext(r *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	return echo.New().NewContext(r, w), w
}

func requireUnauthorized(t *testing.T, err error) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuthContext(t *testing.T) {
	t.Run("propagates gateway user headers", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		r.Header.Set(auth.XUserNameHeader, "alice")
		r.Header.Set(auth.XUserRoleHeader, auth.RoleAdmin)
		c, w := newContext(r)

		require.NoError(t, md.AuthContext(next)(c))
		require.Equal(t, "alice:ADMIN", w.Body.String())
	})

	t.Run("missing user name is unauthorized", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		r.Header.Set(auth.XUserRoleHeader, auth.RoleUser)
		c, _ := newContext(r)

		requireUnauthorized(t, md.AuthContext(next)(c))
	})

	t.Run("missing role is unauthorized", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		r.Header.Set(auth.XUserNameHeader, "alice")
		c, _ := newContext(r)

		requireUnauthorized(t, md.AuthContext(next)(c))
	})
}

func TestJwtAuthentication(t *testing.T) {
	t.Run("valid token sets auth context", func(t *testing.T) {
		claims := &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		claims.Profile.Username = "bob"
		claims.Profile.Role = auth.RoleUser
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(auth.JWTKey)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+token)
		c, w := newContext(r)

		require.NoError(t, md.JwtAuthentication(next)(c))
		require.Equal(t, "bob:USER", w.Body.String())
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		c, _ := newContext(r)

		requireUnauthorized(t, md.JwtAuthentication(next)(c))
	})

	t.Run("malformed token is unauthorized", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer not-a-token")
		c, _ := newContext(r)

		requireUnauthorized(t, md.JwtAuthentication(next)(c))
	})
}
