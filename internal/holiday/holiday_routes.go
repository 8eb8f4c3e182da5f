package holiday

import (
	"go-leave/internal/access"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	resolver middleware.ActorResolver,
) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware(), middleware.ResolveActor(resolver))
	{
		holidays.GET("", handler.List)
		holidays.POST("/import", middleware.RequireCapability(access.ManageAll), handler.Import)
	}
}
