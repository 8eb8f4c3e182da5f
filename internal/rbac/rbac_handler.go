package rbac

import (
	"net/http"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Capabilities returns what the caller may do with leave records, for UI gating.
func (h *Handler) Capabilities(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context", nil)
		return
	}

	resp := CapabilitiesResponse{
		EmployeeID: actor.EmployeeID.String(),
		Actions:    actor.Capabilities.Actions(),
	}
	if actor.DepartmentID != nil {
		v := actor.DepartmentID.String()
		resp.DepartmentID = &v
	}
	response.Success(c, http.StatusOK, resp, nil)
}
