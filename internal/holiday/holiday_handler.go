package holiday

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	holidayerrors "go-leave/internal/holiday/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("holiday.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("holiday request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) List(c *gin.Context) {
	var q ListHolidayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	start, err1 := time.Parse("2006-01-02", q.Start)
	end, err2 := time.Parse("2006-01-02", q.End)
	if err1 != nil || err2 != nil || end.Before(start) {
		h.writeServiceError(c, holidayerrors.ErrInvalidDateRange)
		return
	}

	entries, err := h.service.EntriesBetween(c.Request.Context(), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp := make([]HolidayResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapToResponse(e)
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Import accepts either JSON or a multipart upload with source, year and file.
func (h *Handler) Import(c *gin.Context) {
	operator := c.GetString("employee_id")

	var req ImportRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		parsed, err := h.bindUpload(c)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		req = parsed
	} else {
		var body ImportHolidayRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			h.logger.Warn("http import holidays validation failed", zap.Error(err))
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
		req = ImportRequest{Source: body.Source, Year: body.Year, URL: body.URL}
		if len(body.Entries) > 0 {
			payload, err := json.Marshal(body.Entries)
			if err != nil {
				h.writeServiceError(c, err)
				return
			}
			req.Payload = payload
		}
	}
	req.Operator = operator

	result, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) bindUpload(c *gin.Context) (ImportRequest, error) {
	year, err := strconv.Atoi(c.PostForm("year"))
	if err != nil {
		return ImportRequest{}, holidayerrors.ErrInvalidYear
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return ImportRequest{}, holidayerrors.ErrEmptyPayload
	}
	f, err := fh.Open()
	if err != nil {
		return ImportRequest{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return ImportRequest{}, err
	}

	source := strings.ToUpper(c.PostForm("source"))
	if source == "" {
		source = SourceXLS
		if strings.EqualFold(filepath.Ext(fh.Filename), ".ics") {
			source = SourceICS
		}
	}
	return ImportRequest{Source: source, Year: year, Payload: data}, nil
}

func mapToResponse(e Entry) HolidayResponse {
	return HolidayResponse{
		ID:       e.ID.String(),
		Date:     e.Date.Format("2006-01-02"),
		Name:     e.Name,
		Category: e.Category,
		AllDay:   e.AllDay,
		Source:   e.Source,
	}
}
