package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mizutamari/gallery/utils"
)

const (
	// SessionCookieName is the cookie carrying the admin session token.
	SessionCookieName = "gallery_session"
	// ContextTokenKey stores the raw session token inside Gin context.
	ContextTokenKey = "session_token"
)

// AdminRequired ensures the request carries a valid admin session, either as
// the session cookie or as a bearer token.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := sessionToken(ctx)
		if token == "" {
			unauthorized(ctx, 40101, "authentication required")
			return
		}

		if utils.IsTokenBlacklisted(token) {
			unauthorized(ctx, 40102, "session revoked")
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			unauthorized(ctx, 40103, "invalid session")
			return
		}
		if !claims.Admin {
			unauthorized(ctx, 40104, "admin session required")
			return
		}

		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}

func sessionToken(ctx *gin.Context) string {
	if v, err := ctx.Cookie(SessionCookieName); err == nil && v != "" {
		return v
	}
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// unauthorized sends browser page loads to the login page; API calls get a
// JSON 401.
func unauthorized(ctx *gin.Context, code int, message string) {
	path := ctx.Request.URL.Path
	if !strings.HasPrefix(path, "/api/") && strings.Contains(ctx.GetHeader("Accept"), "text/html") {
		ctx.Redirect(http.StatusFound, "/login")
		ctx.Abort()
		return
	}
	utils.Error(ctx, http.StatusUnauthorized, code, message)
	ctx.Abort()
}
