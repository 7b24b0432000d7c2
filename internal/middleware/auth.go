package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/el-modasser/elkababgy/internal/auth"
)

// Context keys set by Authenticate.
const (
	KeyUserID    = "userID"
	KeyUserEmail = "userEmail"
	KeyUserRole  = "userRole"
	KeyOrdering  = "ordering"
	KeyLanguage  = "lang"
)

// Authenticate accepts "Authorization: Bearer <token>" signed by tokens and
// attaches the claims to the request context. For visitor tokens the user id
// is the session id.
func Authenticate(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		log.Debug().
			Str("subject", claims.Subject).
			Str("role", claims.Role).
			Msg("request authenticated")

		c.Set(KeyUserID, claims.Subject)
		c.Set(KeyUserEmail, claims.Email)
		c.Set(KeyUserRole, claims.Role)
		c.Set(KeyOrdering, claims.Ordering)
		c.Set(KeyLanguage, claims.Language)
		c.Next()
	}
}
