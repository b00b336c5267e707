package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/nominate-go/pkg/types"
)

var ErrNoClaims = errors.New("user claims not found in context")

func GetClaimsFromContext(c *gin.Context) (*types.Claims, error) {
	claimsVal, exists := c.Get("claims")
	if !exists {
		return nil, ErrNoClaims
	}

	claims, ok := claimsVal.(*types.Claims)
	if !ok || claims == nil {
		return nil, errors.New("invalid user claims type")
	}
	return claims, nil
}

var GetUserIDFromContext = func(c *gin.Context) (uint, error) {
	claims, err := GetClaimsFromContext(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

var GetUserNameFromContext = func(c *gin.Context) (string, error) {
	claims, err := GetClaimsFromContext(c)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

// ActorFromContext captures the caller for audit records. The user id is
// zero for unauthenticated requests.
func ActorFromContext(c *gin.Context) types.Actor {
	uid, _ := GetUserIDFromContext(c)
	return types.Actor{
		UserID:    uid,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}
