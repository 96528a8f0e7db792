package suggestions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/timeout"
	"resume-builder/internal/usage"
)

type suggestRequest struct {
	Description string `json:"description" validate:"required,max=5000"`
	JobRole     string `json:"jobRole" validate:"max=200"`
	CompanyName string `json:"companyName" validate:"max=200"`
}

// Handler exposes /ai-suggestions.
type Handler struct {
	Svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, validate: validator.New()}
}

// RegisterRoutes attaches suggestion routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai-suggestions", h.suggest)
	rg.GET("/ai-suggestions", h.report)
}

func (h *Handler) suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Description is required")
		return
	}
	middleware.TagUsageFeature(c, string(usage.FeatureAISuggestions))

	res, err := h.Svc.Suggest(c.Request.Context(), middleware.UserIDFromContext(c), Input{
		Description: req.Description,
		JobRole:     req.JobRole,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) report(c *gin.Context) {
	rep, err := h.Svc.Report(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch usage")
		return
	}
	respond.OK(c, rep)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var limitErr *usage.LimitError
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Description is required")
	case errors.As(err, &limitErr):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", limitErr.Error())
	case timeout.IsTimeout(err):
		respond.Error(c, http.StatusGatewayTimeout, "upstream_timeout", "AI request timed out. Please try again.")
	case errors.Is(err, ErrInvalidResponse), errors.Is(err, llm.ErrEmptyResponse):
		respond.Error(c, http.StatusBadGateway, "upstream_invalid", "Invalid AI response")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to generate suggestions")
	}
}
