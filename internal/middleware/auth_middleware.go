package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/eyecare/visionai/internal/app/auth"
	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/pkg/auth"
)

// principalKey is the gin context key the authenticated principal is stored
// under.
const principalKey = "principal"

// userDirectory resolves token subjects to their current account state.
type userDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthMiddleware validates bearer tokens and attaches the caller's principal
// to the request context.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      userDirectory
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users userDirectory) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// JWTAuth validates the Authorization header and loads the account behind the
// token. The account is re-read on every request so a deactivation takes
// effect before the access token expires.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			abortUnauthorized(c, code, "Authentication failed", details)
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Authentication failed", "Account no longer exists")
			return
		}

		c.Set("userID", user.ID)
		c.Set("username", user.Username)
		c.Set("roleType", string(user.RoleType))
		c.Set(principalKey, appauth.Principal{
			UserID:   user.ID,
			Role:     user.RoleType,
			IsActive: user.IsActive,
		})

		c.Next()
	}
}

// RoleRequired rejects callers whose role is not in the allowed set. It must
// run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(allowed ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "User role not found")
			return
		}

		for _, role := range allowed {
			if p.Role == role {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// CurrentPrincipal returns the authenticated principal set by JWTAuth.
func CurrentPrincipal(c *gin.Context) (appauth.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return appauth.Principal{}, false
	}
	p, ok := value.(appauth.Principal)
	return p, ok
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message).WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
