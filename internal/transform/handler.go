package transform

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/extract"
	"resume-builder/internal/llm"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/timeout"
	"resume-builder/internal/usage"
)

const maxTextBodyBytes = 1 << 20

// Handler exposes /transform-pdf-string and /transform-pdf.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches transform routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/transform-pdf-string", h.transformText)
	rg.GET("/transform-pdf-string", h.report)
	rg.POST("/transform-pdf", h.transformUpload)
}

func (h *Handler) transformText(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTextBodyBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid payload")
		return
	}
	if len(raw) > maxTextBodyBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "Input is too large")
		return
	}
	input, ok := decodeInput(raw, c.ContentType())
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid payload")
		return
	}
	middleware.TagUsageFeature(c, string(usage.FeatureTransform))

	doc, _, err := h.Svc.Transform(c.Request.Context(), middleware.UserIDFromContext(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Data(c, doc)
}

func (h *Handler) transformUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+1<<10)
	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "File is too large")
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required")
		return
	}
	if fh.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "File is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid upload")
		return
	}
	defer f.Close()
	body, err := io.ReadAll(f)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid upload")
		return
	}
	middleware.TagUsageFeature(c, string(usage.FeatureTransform))

	doc, _, err := h.Svc.TransformUpload(c.Request.Context(), middleware.UserIDFromContext(c),
		fh.Filename, body, fh.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Data(c, doc)
}

func (h *Handler) report(c *gin.Context) {
	rep, err := h.Svc.Report(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch usage")
		return
	}
	respond.OK(c, rep)
}

// decodeInput accepts a JSON string, {"input": string}, or raw text. Bodies
// not sent as application/json fall back to raw text when they do not decode.
func decodeInput(raw []byte, contentType string) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	isJSON := contentType == "application/json"
	if !isJSON && !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, `"`) {
		return trimmed, true
	}
	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
		return s, true
	}
	var body struct {
		Input *string `json:"input"`
	}
	if err := json.Unmarshal([]byte(trimmed), &body); err != nil || body.Input == nil {
		if !isJSON {
			return trimmed, true
		}
		return "", false
	}
	return *body.Input, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	var limitErr *usage.LimitError
	switch {
	case errors.Is(err, ErrEmptyInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Input is required")
	case errors.Is(err, ErrInputTooLarge):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Input is too large")
	case errors.As(err, &limitErr):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", limitErr.Error())
	case timeout.IsTimeout(err):
		respond.Error(c, http.StatusGatewayTimeout, "upstream_timeout", "AI request timed out. Please try again.")
	case errors.Is(err, llm.ErrEmptyResponse):
		respond.Error(c, http.StatusBadGateway, "upstream_invalid", "Invalid AI response")
	case errors.Is(err, ErrUnparseable):
		respond.Error(c, http.StatusUnprocessableEntity, "unparseable", "Could not parse the AI response")
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "Only PDF and DOCX files are supported")
	case errors.Is(err, extract.ErrNoText):
		respond.Error(c, http.StatusUnprocessableEntity, "no_text", "No text could be extracted from the file")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to transform resume")
	}
}
