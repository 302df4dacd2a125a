package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodstore_back_end/internal/response"
)

// AuthorizeRoles n'autorise que les rôles listés. À placer après
// AuthRequired : le rôle est lu depuis le contexte, jamais depuis la requête.
func AuthorizeRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Abort(c, http.StatusForbidden, "Forbidden: insufficient role")
	}
}
