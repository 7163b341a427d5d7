package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"videotube/pkg/apierr"
	"videotube/pkg/auth"
	"videotube/pkg/respond"
)

const ctxUserID = "userID"

// RequireAuth verifies the access token from the Authorization header or
// the accessToken cookie and stores the verified identity on the context.
// No handler runs without it on guarded routes.
func (api *API) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
		if token == "" {
			token, _ = c.Cookie("accessToken")
		}
		if token == "" {
			respond.Fail(c, api.log, apierr.Unauthorized("authentication required"))
			c.Abort()
			return
		}
		claims, err := auth.ValidateJWT(api.cfg.JWTSecret, token)
		if err != nil {
			respond.Fail(c, api.log, apierr.Unauthorized("invalid or expired token"))
			c.Abort()
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Next()
	}
}

// currentUserID returns the identity set by RequireAuth.
func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
