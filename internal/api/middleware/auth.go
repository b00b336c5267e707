package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nominate-go/pkg/response"
	"github.com/linskybing/nominate-go/pkg/utils"
)

// Admin lets through only tokens issued to administrators.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := utils.GetClaimsFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Invalid token claims", Kind: "unauthorized"})
			return
		}
		if !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: "admin only", Kind: "forbidden"})
			return
		}
		c.Next()
	}
}
