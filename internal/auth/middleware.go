package auth

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"session-auth/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	queryTokenParam     = "token"

	// CloseCodeUnauthorized is the socket close code for a rejected token.
	CloseCodeUnauthorized = 4401
	closeCodeHeader       = "X-Close-Code"

	// ServiceKeyHeader carries the shared key of the trusted caller that
	// authenticated the user and asks for a token pair.
	ServiceKeyHeader = "X-Service-Key"
)

// BearerToken extracts the bare token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", tokenInvalid("Invalid authorization header format", nil)
	}
	tok := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if tok == "" {
		return "", tokenInvalid("Invalid authorization header format", nil)
	}
	return tok, nil
}

// RequireAccessToken verifies a header-carried access token and injects its
// claims into the request context. requireSession enables phase 2.
func RequireAccessToken(m *Manager, requireSession bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := BearerToken(c.GetHeader(authorizationHeader))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		claims, err := m.Verify(c.Request.Context(), tok, requireSession)
		if err == nil {
			err = RequireType(claims, TokenTypeAccess)
		}
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// RequireQueryToken guards socket handshakes: the token comes from the
// "token" query parameter and only phase 1 runs. On failure the handshake is
// refused before upgrade; closing an upgraded connection stays with the
// socket layer.
func RequireQueryToken(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := strings.TrimSpace(c.Query(queryTokenParam))
		var (
			claims Claims
			err    error
		)
		if tok == "" {
			err = tokenInvalid("Token missing in query parameters", nil)
		} else {
			claims, err = m.Verify(c.Request.Context(), tok, false)
		}
		if err != nil {
			logger.FromGin(c).Warn("socket token rejected", "code", KindOf(err))
			c.Header(closeCodeHeader, strconv.Itoa(CloseCodeUnauthorized))
			AbortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// RequireServiceKey admits only callers presenting the configured service
// key. An empty key admits nobody.
func RequireServiceKey(key string) gin.HandlerFunc {
	want := []byte(key)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(ServiceKeyHeader))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			logger.FromGin(c).Warn("service key rejected", "path", c.Request.URL.Path, "client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "SERVICE_UNAUTHORIZED",
				"message": "Missing or invalid service key",
			}})
			return
		}
		c.Next()
	}
}

// HTTPStatus maps a core failure to a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindTokenExpired, KindTokenInvalid, KindWrongTokenType, KindTokenRevoked, KindNoActiveSession:
		return http.StatusUnauthorized
	case KindMaxDevicesExceeded:
		return http.StatusForbidden
	case KindSessionStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes {"error":{"code","message"}} and stops the chain.
// The cause is logged, never sent.
func AbortWithError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	kind := KindOf(err)
	l := logger.FromGin(c)
	if status >= http.StatusInternalServerError {
		l.Error("auth failure", "code", kind, "err", err)
	} else {
		l.Warn("auth failure", "code", kind, "detail", DetailOf(err), "path", c.Request.URL.Path, "method", c.Request.Method)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": kind, "message": DetailOf(err)}})
}
