package leave

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"go-leave/internal/access"
	"go-leave/internal/attachment"
	attachmenterrors "go-leave/internal/attachment/errors"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	formUpdateRequest  = "updateRequest"
	formNewAttachments = "newAttachments"
	formFile           = "file"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) actor(c *gin.Context) (access.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.writeServiceError(c, middleware.ErrMissingActor)
	}
	return actor, ok
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var q ListLeaveQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}

	resp, total, err := h.service.Query(c.Request.Context(), actor, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, q.Page, q.PageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	middleware.RememberIdempotentResponse(c, h.rdb, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

// Amend accepts a JSON patch, or multipart with the patch in updateRequest and files in newAttachments.
func (h *Handler) Amend(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req AmendLeaveRequest
	var files []attachment.Upload

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if raw := c.PostForm(formUpdateRequest); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req); err != nil {
				h.writeServiceError(c, apperror.Validation("MALFORMED_BODY", "updateRequest is not valid JSON"))
				return
			}
		}
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
		form, err := c.MultipartForm()
		if err != nil {
			h.writeServiceError(c, apperror.Validation("MALFORMED_BODY", "invalid multipart form"))
			return
		}
		files, err = readUploads(form.File[formNewAttachments])
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http amend leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Amend(c.Request.Context(), actor, c.Param("id"), req, files)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Review(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http review leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Review(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) AddAttachment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	fh, err := c.FormFile(formFile)
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrMissingFile)
		return
	}
	uploads, err := readUploads([]*multipart.FileHeader{fh})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.AddAttachment(c.Request.Context(), actor, c.Param("id"), uploads[0])
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) OpenAttachment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	file, err := h.service.OpenAttachment(c.Request.Context(), actor, c.Param("id"), c.Param("key"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	disposition := "attachment"
	if c.Query("inline") == "true" && strings.HasPrefix(file.ContentType, "image/") {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename*=UTF-8''%s", disposition, url.PathEscape(file.FileName)))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *Handler) RemoveAttachment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.service.RemoveAttachment(c.Request.Context(), actor, c.Param("id"), c.Param("key")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) PreviewHours(c *gin.Context) {
	var q PreviewHoursQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.PreviewHours(c.Request.Context(), q.Start, q.End)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) FormData(c *gin.Context) {
	resp, err := h.service.FormData(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SearchAgents(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q AgentSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SearchAgents(c.Request.Context(), actor, q.Name)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AnnualBalance(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	resp, err := h.service.AnnualBalance(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// readUploads buffers uploaded files, refusing more than the attachment size limit in total.
func readUploads(headers []*multipart.FileHeader) ([]attachment.Upload, error) {
	uploads := make([]attachment.Upload, 0, len(headers))
	var total int64
	for _, fh := range headers {
		total += fh.Size
		if total > attachment.MaxTotalBytes {
			return nil, attachmenterrors.ErrTotalSizeLimit
		}

		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, attachment.MaxTotalBytes+1))
		f.Close()
		if err != nil {
			return nil, err
		}

		uploads = append(uploads, attachment.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
