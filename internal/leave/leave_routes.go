package leave

import (
	"go-leave/internal/access"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	resolver middleware.ActorResolver,
	rdb *redis.Client,
) {
	leave := r.Group("/leave")
	leave.Use(
		middleware.AuthMiddleware(),
		middleware.RateLimitByEmployee(rate.Limit(20), 40),
		middleware.ResolveActor(resolver),
	)
	{
		records := leave.Group("/records")
		records.GET("", handler.List)
		records.GET("/:id", handler.GetByID)
		if rdb != nil {
			records.POST("", middleware.Idempotency(rdb), handler.Create)
		} else {
			records.POST("", handler.Create)
		}
		records.PUT("/:id", handler.Amend)
		records.PUT("/:id/status", middleware.RequireCapability(access.Approve, access.ManageAll), handler.Review)
		records.DELETE("/:id", handler.Delete)
		records.POST("/:id/attachments", handler.AddAttachment)

		leave.GET("/attachments/:id/:key", handler.OpenAttachment)
		leave.DELETE("/attachments/:id/:key", handler.RemoveAttachment)

		leave.GET("/calculate-hours", handler.PreviewHours)
		leave.GET("/form-data", handler.FormData)
		leave.GET("/agents", handler.SearchAgents)
		leave.GET("/annual-leave-balance", handler.AnnualBalance)
	}
}
