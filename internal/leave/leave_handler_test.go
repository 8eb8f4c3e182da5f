package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"go-leave/internal/access"
	"go-leave/internal/attachment"
	attachmenterrors "go-leave/internal/attachment/errors"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn           func(ctx context.Context, actor access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	amendFn            func(ctx context.Context, actor access.Actor, id string, req leave.AmendLeaveRequest, files []attachment.Upload) (leave.LeaveResponse, error)
	reviewFn           func(ctx context.Context, actor access.Actor, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error)
	deleteFn           func(ctx context.Context, actor access.Actor, id string) error
	getFn              func(ctx context.Context, actor access.Actor, id string) (leave.LeaveResponse, error)
	queryFn            func(ctx context.Context, actor access.Actor, q leave.ListLeaveQuery) ([]leave.LeaveResponse, int64, error)
	addAttachmentFn    func(ctx context.Context, actor access.Actor, id string, upload attachment.Upload) (leave.AttachmentResponse, error)
	removeAttachmentFn func(ctx context.Context, actor access.Actor, id, key string) error
	openAttachmentFn   func(ctx context.Context, actor access.Actor, id, key string) (leave.AttachmentFile, error)
	previewHoursFn     func(ctx context.Context, start, end string) (leave.HoursPreviewResponse, error)
	searchAgentsFn     func(ctx context.Context, actor access.Actor, name string) ([]leave.AgentResponse, error)
	annualBalanceFn    func(ctx context.Context, actor access.Actor) (leave.AnnualBalanceResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, actor access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, actor, req)
}
func (f *fakeLeaveService) Amend(ctx context.Context, actor access.Actor, id string, req leave.AmendLeaveRequest, files []attachment.Upload) (leave.LeaveResponse, error) {
	return f.amendFn(ctx, actor, id, req, files)
}
func (f *fakeLeaveService) Review(ctx context.Context, actor access.Actor, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	return f.reviewFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Delete(ctx context.Context, actor access.Actor, id string) error {
	return f.deleteFn(ctx, actor, id)
}
func (f *fakeLeaveService) Get(ctx context.Context, actor access.Actor, id string) (leave.LeaveResponse, error) {
	return f.getFn(ctx, actor, id)
}
func (f *fakeLeaveService) Query(ctx context.Context, actor access.Actor, q leave.ListLeaveQuery) ([]leave.LeaveResponse, int64, error) {
	return f.queryFn(ctx, actor, q)
}
func (f *fakeLeaveService) AddAttachment(ctx context.Context, actor access.Actor, id string, upload attachment.Upload) (leave.AttachmentResponse, error) {
	return f.addAttachmentFn(ctx, actor, id, upload)
}
func (f *fakeLeaveService) RemoveAttachment(ctx context.Context, actor access.Actor, id, key string) error {
	return f.removeAttachmentFn(ctx, actor, id, key)
}
func (f *fakeLeaveService) OpenAttachment(ctx context.Context, actor access.Actor, id, key string) (leave.AttachmentFile, error) {
	return f.openAttachmentFn(ctx, actor, id, key)
}
func (f *fakeLeaveService) PreviewHours(ctx context.Context, start, end string) (leave.HoursPreviewResponse, error) {
	return f.previewHoursFn(ctx, start, end)
}
func (f *fakeLeaveService) FormData(ctx context.Context) (leave.FormDataResponse, error) {
	return leave.FormDataResponse{}, nil
}
func (f *fakeLeaveService) SearchAgents(ctx context.Context, actor access.Actor, name string) ([]leave.AgentResponse, error) {
	return f.searchAgentsFn(ctx, actor, name)
}
func (f *fakeLeaveService) AnnualBalance(ctx context.Context, actor access.Actor) (leave.AnnualBalanceResponse, error) {
	return f.annualBalanceFn(ctx, actor)
}

func newLeaveRouter(svc leave.Service, actor *access.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := leave.NewHandler(svc, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextActor, *actor)
		}
		c.Next()
	})
	r.GET("/records", h.List)
	r.GET("/records/:id", h.GetByID)
	r.POST("/records", h.Create)
	r.PUT("/records/:id", h.Amend)
	r.PUT("/records/:id/status", h.Review)
	r.DELETE("/records/:id", h.Delete)
	r.POST("/records/:id/attachments", h.AddAttachment)
	r.GET("/attachments/:id/:key", h.OpenAttachment)
	r.DELETE("/attachments/:id/:key", h.RemoveAttachment)
	r.GET("/calculate-hours", h.PreviewHours)
	r.GET("/agents", h.SearchAgents)
	r.GET("/annual-leave-balance", h.AnnualBalance)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLeaveHandler_Create(t *testing.T) {
	actor := ownerActor()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, a access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, ownerID, a.EmployeeID)
				assert.Equal(t, typeID.String(), req.LeaveTypeID)
				return leave.LeaveResponse{ID: leaveID.String(), Hours: "16.00", Status: leave.StatusPending}, nil
			},
		}
		body := `{"leave_type_id":"` + typeID.String() + `","start":"2026-03-02T09:00","end":"2026-03-03T18:00","reason":"trip"}`
		req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := serve(newLeaveRouter(svc, &actor), req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "16.00", got.Hours)
	})

	t.Run("missing leave type", func(t *testing.T) {
		svc := &fakeLeaveService{}
		req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(`{"start":"2026-03-02T09:00","end":"2026-03-03T18:00"}`))
		req.Header.Set("Content-Type", "application/json")

		w := serve(newLeaveRouter(svc, &actor), req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	})

	t.Run("no actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		w := serve(newLeaveRouter(&fakeLeaveService{}, nil), req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("service error mapped", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, a access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAgentIsOwner
			},
		}
		body := `{"leave_type_id":"` + typeID.String() + `","start":"2026-03-02T09:00","end":"2026-03-03T18:00"}`
		req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := serve(newLeaveRouter(svc, &actor), req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	})
}

func TestLeaveHandler_List(t *testing.T) {
	actor := managerActor()
	svc := &fakeLeaveService{
		queryFn: func(ctx context.Context, a access.Actor, q leave.ListLeaveQuery) ([]leave.LeaveResponse, int64, error) {
			assert.Equal(t, "departmentPending", q.View)
			assert.Equal(t, 2, q.Page)
			assert.Equal(t, 10, q.PageSize)
			return []leave.LeaveResponse{{ID: leaveID.String()}}, 11, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/records?view=departmentPending&page=2", nil)

	w := serve(newLeaveRouter(svc, &actor), req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	if assert.NotNil(t, env.Meta) {
		assert.Equal(t, int64(11), env.Meta.Total)
		assert.Equal(t, 2, env.Meta.TotalPages)
		assert.Equal(t, 2, env.Meta.Page)
	}
}

func TestLeaveHandler_Review(t *testing.T) {
	actor := managerActor()

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "approved", body: `{"status":"APPROVED"}`, wantStatus: http.StatusOK},
		{name: "lowercase reaches the service", body: `{"status":"rejected"}`, wantStatus: http.StatusOK},
		{name: "missing status", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "bad status", body: `{"status":"MAYBE"}`, err: leaveerrors.ErrInvalidStatus, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "self review", body: `{"status":"APPROVED"}`, err: leaveerrors.ErrSelfReview, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "already reviewed", body: `{"status":"REJECTED"}`, err: leaveerrors.ErrNotPending, wantStatus: http.StatusConflict, wantCode: "INVALID_STATE"},
		{name: "concurrent", body: `{"status":"REJECTED"}`, err: leaveerrors.ErrVersionMismatch, wantStatus: http.StatusConflict, wantCode: "CONCURRENT_UPDATE"},
		{name: "missing", body: `{"status":"APPROVED"}`, err: leaveerrors.ErrLeaveNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeLeaveService{
				reviewFn: func(ctx context.Context, a access.Actor, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
					assert.Equal(t, leaveID.String(), id)
					if tt.err != nil {
						return leave.LeaveResponse{}, tt.err
					}
					return leave.LeaveResponse{ID: id, Status: req.Status}, nil
				},
			}
			req := httptest.NewRequest(http.MethodPut, "/records/"+leaveID.String()+"/status", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := serve(newLeaveRouter(svc, &actor), req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				env := decodeEnvelope(t, w.Body.Bytes())
				assert.Equal(t, tt.wantCode, env.Error.Code)
			}
		})
	}
}

func TestLeaveHandler_Amend(t *testing.T) {
	actor := ownerActor()

	t.Run("json patch", func(t *testing.T) {
		svc := &fakeLeaveService{
			amendFn: func(ctx context.Context, a access.Actor, id string, req leave.AmendLeaveRequest, files []attachment.Upload) (leave.LeaveResponse, error) {
				if assert.NotNil(t, req.Reason) {
					assert.Equal(t, "changed", *req.Reason)
				}
				assert.Empty(t, files)
				return leave.LeaveResponse{ID: id, Version: 2}, nil
			},
		}
		req := httptest.NewRequest(http.MethodPut, "/records/"+leaveID.String(), strings.NewReader(`{"reason":"changed","version":1}`))
		req.Header.Set("Content-Type", "application/json")

		w := serve(newLeaveRouter(svc, &actor), req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("multipart with files", func(t *testing.T) {
		svc := &fakeLeaveService{
			amendFn: func(ctx context.Context, a access.Actor, id string, req leave.AmendLeaveRequest, files []attachment.Upload) (leave.LeaveResponse, error) {
				assert.Equal(t, []string{"old.pdf"}, req.DeleteAttachmentKeys)
				if assert.Len(t, files, 2) {
					assert.Equal(t, "a.pdf", files[0].FileName)
					assert.Equal(t, "application/pdf", files[0].ContentType)
					assert.Equal(t, []byte("%PDF-1.4"), files[0].Data)
					assert.Equal(t, "b.png", files[1].FileName)
				}
				return leave.LeaveResponse{ID: id}, nil
			},
		}

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		assert.NoError(t, mw.WriteField("updateRequest", `{"delete_attachment_keys":["old.pdf"]}`))
		for _, f := range []struct{ name, ct, data string }{
			{"a.pdf", "application/pdf", "%PDF-1.4"},
			{"b.png", "image/png", "\x89PNG"},
		} {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", `form-data; name="newAttachments"; filename="`+f.name+`"`)
			h.Set("Content-Type", f.ct)
			part, err := mw.CreatePart(h)
			assert.NoError(t, err)
			_, _ = part.Write([]byte(f.data))
		}
		assert.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, "/records/"+leaveID.String(), &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		w := serve(newLeaveRouter(svc, &actor), req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed updateRequest", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		assert.NoError(t, mw.WriteField("updateRequest", `{not json`))
		assert.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, "/records/"+leaveID.String(), &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		w := serve(newLeaveRouter(&fakeLeaveService{}, &actor), req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("quota error", func(t *testing.T) {
		svc := &fakeLeaveService{
			amendFn: func(ctx context.Context, a access.Actor, id string, req leave.AmendLeaveRequest, files []attachment.Upload) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, attachmenterrors.ErrTooManyFiles
			},
		}
		req := httptest.NewRequest(http.MethodPut, "/records/"+leaveID.String(), strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		w := serve(newLeaveRouter(svc, &actor), req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Delete(t *testing.T) {
	actor := ownerActor()

	t.Run("no content", func(t *testing.T) {
		svc := &fakeLeaveService{
			deleteFn: func(ctx context.Context, a access.Actor, id string) error { return nil },
		}

		w := serve(newLeaveRouter(svc, &actor), httptest.NewRequest(http.MethodDelete, "/records/"+leaveID.String(), nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &fakeLeaveService{
			deleteFn: func(ctx context.Context, a access.Actor, id string) error { return leaveerrors.ErrForbidden },
		}

		w := serve(newLeaveRouter(svc, &actor), httptest.NewRequest(http.MethodDelete, "/records/"+leaveID.String(), nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_Attachments(t *testing.T) {
	actor := ownerActor()

	t.Run("upload", func(t *testing.T) {
		svc := &fakeLeaveService{
			addAttachmentFn: func(ctx context.Context, a access.Actor, id string, upload attachment.Upload) (leave.AttachmentResponse, error) {
				assert.Equal(t, "scan.png", upload.FileName)
				return leave.AttachmentResponse{StoredKey: "k.png", FileName: upload.FileName}, nil
			},
		}
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "scan.png")
		assert.NoError(t, err)
		_, _ = part.Write([]byte("\x89PNG"))
		assert.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/records/"+leaveID.String()+"/attachments", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		w := serve(newLeaveRouter(svc, &actor), req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("upload without file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		assert.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/records/"+leaveID.String()+"/attachments", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		w := serve(newLeaveRouter(&fakeLeaveService{}, &actor), req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("open inline image", func(t *testing.T) {
		svc := &fakeLeaveService{
			openAttachmentFn: func(ctx context.Context, a access.Actor, id, key string) (leave.AttachmentFile, error) {
				assert.Equal(t, "k.png", key)
				return leave.AttachmentFile{FileName: "scan one.png", ContentType: "image/png", Data: []byte("png")}, nil
			},
		}

		w := serve(newLeaveRouter(svc, &actor), httptest.NewRequest(http.MethodGet, "/attachments/"+leaveID.String()+"/k.png?inline=true", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, "inline; filename*=UTF-8''scan%20one.png", w.Header().Get("Content-Disposition"))
		assert.Equal(t, "png", w.Body.String())
	})

	t.Run("open pdf as download", func(t *testing.T) {
		svc := &fakeLeaveService{
			openAttachmentFn: func(ctx context.Context, a access.Actor, id, key string) (leave.AttachmentFile, error) {
				return leave.AttachmentFile{FileName: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
			},
		}

		w := serve(newLeaveRouter(svc, &actor), httptest.NewRequest(http.MethodGet, "/attachments/"+leaveID.String()+"/k.pdf?inline=true", nil))

		assert.Equal(t, "attachment; filename*=UTF-8''a.pdf", w.Header().Get("Content-Disposition"))
	})

	t.Run("remove inconsistent storage", func(t *testing.T) {
		svc := &fakeLeaveService{
			removeAttachmentFn: func(ctx context.Context, a access.Actor, id, key string) error {
				return attachmenterrors.ErrStorageInconsistency
			},
		}

		w := serve(newLeaveRouter(svc, &actor), httptest.NewRequest(http.MethodDelete, "/attachments/"+leaveID.String()+"/k.pdf", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "STORAGE_INCONSISTENCY", env.Error.Code)
	})
}

func TestLeaveHandler_PreviewHours(t *testing.T) {
	actor := ownerActor()
	svc := &fakeLeaveService{
		previewHoursFn: func(ctx context.Context, start, end string) (leave.HoursPreviewResponse, error) {
			return leave.HoursPreviewResponse{Start: start, End: end, Hours: "1.33"}, nil
		},
	}

	w := serve(newLeaveRouter(svc, &actor), httptest.NewRequest(http.MethodGet, "/calculate-hours?start=2026-03-02T09:00&end=2026-03-02T10:20", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var got leave.HoursPreviewResponse
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "1.33", got.Hours)

	w = serve(newLeaveRouter(svc, &actor), httptest.NewRequest(http.MethodGet, "/calculate-hours?start=2026-03-02T09:00", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveHandler_SearchAgents(t *testing.T) {
	actor := ownerActor()

	t.Run("passes the name through", func(t *testing.T) {
		svc := &fakeLeaveService{
			searchAgentsFn: func(ctx context.Context, a access.Actor, name string) ([]leave.AgentResponse, error) {
				assert.Equal(t, "wu", name)
				return []leave.AgentResponse{{ID: agentID.String(), FullName: "Agent Wu"}}, nil
			},
		}

		w := serve(newLeaveRouter(svc, &actor), httptest.NewRequest(http.MethodGet, "/agents?name=wu", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got []leave.AgentResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "Agent Wu", got[0].FullName)
	})

	t.Run("name is required", func(t *testing.T) {
		w := serve(newLeaveRouter(&fakeLeaveService{}, &actor), httptest.NewRequest(http.MethodGet, "/agents", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	})
}

func TestLeaveHandler_AnnualBalance(t *testing.T) {
	actor := ownerActor()
	svc := &fakeLeaveService{
		annualBalanceFn: func(ctx context.Context, a access.Actor) (leave.AnnualBalanceResponse, error) {
			assert.Equal(t, actor.EmployeeID, a.EmployeeID)
			return leave.AnnualBalanceResponse{EntitlementDays: 7, EntitlementHours: "56.00", UsedHours: "16.00", BalanceHours: "40.00"}, nil
		},
	}

	w := serve(newLeaveRouter(svc, &actor), httptest.NewRequest(http.MethodGet, "/annual-leave-balance", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var got leave.AnnualBalanceResponse
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "40.00", got.BalanceHours)

	w = serve(newLeaveRouter(svc, nil), httptest.NewRequest(http.MethodGet, "/annual-leave-balance", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
