package middleware

import (
	"context"

	"go-leave/internal/access"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ContextActor = "actor"

type ActorResolver interface {
	Resolve(ctx context.Context, companyID, employeeID string) (access.Actor, error)
}

// ResolveActor loads the caller's department and leave capabilities once per request.
func ResolveActor(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetString("company_id")
		employeeID := c.GetString("employee_id")
		if companyID == "" || employeeID == "" {
			abortWith(c, ErrMissingActor)
			return
		}

		actor, err := resolver.Resolve(c.Request.Context(), companyID, employeeID)
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L()).Error("resolve actor failed",
				zap.String("company_id", companyID),
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			abortWith(c, apperror.ErrInternal)
			return
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// RequireCapability lets the request through when the actor holds any of caps.
func RequireCapability(caps ...access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortWith(c, ErrMissingActor)
			return
		}
		if !actor.Capabilities.Any(caps...) {
			abortWith(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}

func GetActor(c *gin.Context) (access.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}
