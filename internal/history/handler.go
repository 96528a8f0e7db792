package history

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type saveRequest struct {
	ResumeID string `json:"resumeId" validate:"required,max=128"`
	Data     string `json:"data" validate:"required"`
	RowID    string `json:"rowId" validate:"omitempty,max=128"`
}

type resumeIDRequest struct {
	ResumeID string `json:"resumeId" validate:"required,max=128"`
}

// Handler exposes /past-resumes.
type Handler struct {
	Svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, validate: validator.New()}
}

// RegisterRoutes attaches history routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/past-resumes", h.list)
	rg.POST("/past-resumes", h.save)
	rg.DELETE("/past-resumes", h.remove)
	rg.PATCH("/past-resumes", h.restore)
}

func (h *Handler) list(c *gin.Context) {
	entries, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch resumes")
		return
	}
	respond.Data(c, entries)
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeId and data are required")
		return
	}
	entries, err := h.Svc.Save(c.Request.Context(), middleware.UserIDFromContext(c), SaveInput{
		RowID:    req.RowID,
		ResumeID: req.ResumeID,
		Data:     req.Data,
	})
	if err != nil {
		h.fail(c, err, "Failed to save resume")
		return
	}
	respond.Data(c, entries)
}

func (h *Handler) remove(c *gin.Context) {
	resumeID, ok := h.bindResumeID(c)
	if !ok {
		return
	}
	entries, err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), resumeID)
	if err != nil {
		h.fail(c, err, "Failed to delete resume")
		return
	}
	respond.Data(c, entries)
}

func (h *Handler) restore(c *gin.Context) {
	resumeID, ok := h.bindResumeID(c)
	if !ok {
		return
	}
	entries, err := h.Svc.Restore(c.Request.Context(), middleware.UserIDFromContext(c), resumeID)
	if err != nil {
		h.fail(c, err, "Failed to restore resume")
		return
	}
	respond.Data(c, entries)
}

// bindResumeID reads {resumeId} from the body, falling back to ?resumeId=.
func (h *Handler) bindResumeID(c *gin.Context) (string, bool) {
	var req resumeIDRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid payload")
			return "", false
		}
	}
	if req.ResumeID == "" {
		req.ResumeID = c.Query("resumeId")
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeId is required")
		return "", false
	}
	return req.ResumeID, true
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid payload")
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback)
	}
}
