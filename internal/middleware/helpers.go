package middleware

import (
	"crm-service/internal/domain/user"

	"github.com/gin-gonic/gin"
)

// GetActor returns the authenticated actor from the request context.
func GetActor(c *gin.Context) (*user.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return nil, false
	}

	actor, ok := v.(*user.Actor)
	return actor, ok
}

// MustGetActor returns the actor or panics; use only behind Auth().
func MustGetActor(c *gin.Context) *user.Actor {
	actor, ok := GetActor(c)
	if !ok {
		panic("actor not found in context")
	}
	return actor
}
