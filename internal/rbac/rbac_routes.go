package rbac

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, resolver middleware.ActorResolver) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(), middleware.ResolveActor(resolver))
	{
		group.GET("/capabilities", handler.Capabilities)
	}
}
