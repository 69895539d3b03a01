package httpapi

import (
	"errors"
	"net/http"

	"session-auth/internal/audit"
	"session-auth/internal/auth"
	"session-auth/internal/users"
	"session-auth/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth  *auth.Manager
	Users users.Repository
	// Audit may be nil; recording is best-effort.
	Audit *audit.Service
}

const tokenTypeBearer = "bearer"

// --- Auth ---

type tokenRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// IssueTokens issues an access/refresh pair for a known user.
//
// The caller has already verified the user's credentials and proves itself
// with auth.RequireServiceKey; this handler only resolves the user.
func (h Handlers) IssueTokens(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.UserID == "" && req.Username == "") {
		abortJSON(c, http.StatusBadRequest, "INVALID_REQUEST", "user_id or username required")
		return
	}

	ctx := c.Request.Context()
	var (
		u   users.User
		err error
	)
	if req.UserID != "" {
		u, err = h.Users.FindByID(ctx, req.UserID)
	} else {
		u, err = h.Users.FindByName(ctx, req.Username)
	}
	if errors.Is(err, users.ErrNotFound) {
		abortJSON(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	if err != nil {
		logger.FromGin(c).Error("user lookup failed", "err", err)
		abortJSON(c, http.StatusInternalServerError, string(auth.KindInternal), "An unexpected error occurred")
		return
	}

	pair, err := h.Auth.IssueTokenPair(ctx, u.ID)
	if err != nil {
		auth.AbortWithError(c, err)
		return
	}

	h.Audit.Record(ctx, audit.Event{
		Type:      audit.EventTokensIssued,
		UserID:    u.ID,
		IPAddress: c.ClientIP(),
		Message:   "token pair issued",
	})
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    tokenTypeBearer,
	})
}

// Refresh exchanges a refresh token for a new access token.
func (h Handlers) Refresh(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "INVALID_REQUEST", "refresh_token required")
		return
	}

	ctx := c.Request.Context()
	access, err := h.Auth.RefreshAccessToken(ctx, req.RefreshToken)
	if err != nil {
		auth.AbortWithError(c, err)
		return
	}

	// Already verified by the refresh flow.
	if claims, err := h.Auth.Codec().Decode(req.RefreshToken); err == nil {
		h.Audit.Record(ctx, audit.Event{
			Type:      audit.EventAccessRefreshed,
			UserID:    claims.UserID,
			TokenID:   claims.TokenID(),
			IPAddress: c.ClientIP(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "token_type": tokenTypeBearer})
}

// Logout revokes the presented refresh token.
func (h Handlers) Logout(c *gin.Context) {
	claims, ok := h.bindRefreshClaims(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	revoked, err := h.Auth.RevokeOne(ctx, claims.TokenID())
	if err != nil {
		auth.AbortWithError(c, err)
		return
	}
	if revoked {
		h.Audit.Record(ctx, audit.Event{
			Type:      audit.EventTokenRevoked,
			UserID:    claims.UserID,
			TokenID:   claims.TokenID(),
			IPAddress: c.ClientIP(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"revoked": revoked})
}

// LogoutAll revokes every refresh token of the presented token's owner.
func (h Handlers) LogoutAll(c *gin.Context) {
	claims, ok := h.bindRefreshClaims(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	n, err := h.Auth.RevokeAll(ctx, claims.UserID)
	if err != nil {
		auth.AbortWithError(c, err)
		return
	}
	h.Audit.Record(ctx, audit.Event{
		Type:      audit.EventTokensRevokedAll,
		UserID:    claims.UserID,
		IPAddress: c.ClientIP(),
		Message:   "all sessions revoked",
	})
	c.JSON(http.StatusOK, gin.H{"revoked": n})
}

// bindRefreshClaims reads the body token and runs full two-phase
// verification plus the refresh type check.
func (h Handlers) bindRefreshClaims(c *gin.Context) (auth.Claims, bool) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "INVALID_REQUEST", "refresh_token required")
		return auth.Claims{}, false
	}
	claims, err := h.Auth.Verify(c.Request.Context(), req.RefreshToken, true)
	if err == nil {
		err = auth.RequireType(claims, auth.TokenTypeRefresh)
	}
	if err != nil {
		auth.AbortWithError(c, err)
		return auth.Claims{}, false
	}
	return claims, true
}

// --- Identity ---

// Me returns the authenticated user. Requires RequireAccessToken upstream.
func (h Handlers) Me(c *gin.Context) {
	ctx := c.Request.Context()
	uid, err := auth.UserID(ctx)
	if err != nil {
		abortJSON(c, http.StatusUnauthorized, string(auth.KindTokenInvalid), "Missing identity")
		return
	}
	u, err := h.Users.FindByID(ctx, uid)
	if errors.Is(err, users.ErrNotFound) {
		abortJSON(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	if err != nil {
		logger.FromGin(c).Error("user lookup failed", "user_id", uid, "err", err)
		abortJSON(c, http.StatusInternalServerError, string(auth.KindInternal), "An unexpected error occurred")
		return
	}
	c.JSON(http.StatusOK, u)
}

// SocketIdentity answers socket handshakes guarded by RequireQueryToken.
func (h Handlers) SocketIdentity(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c.Request.Context())
	if !ok {
		abortJSON(c, http.StatusUnauthorized, string(auth.KindTokenInvalid), "Missing identity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "expires_at": claims.ExpiresAt.Unix()})
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}
