package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=120"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Handler struct {
	Svc      *Service
	Signer   *auth.Signer
	validate *validator.Validate
}

func NewHandler(svc *Service, signer *auth.Signer) *Handler {
	return &Handler{Svc: svc, Signer: signer, validate: validator.New()}
}

// RegisterPublicRoutes attaches routes that do not require a session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

// RegisterRoutes attaches routes that require a session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "a valid email and a password of at least 8 characters are required")
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			respond.Error(c, http.StatusConflict, "conflict", "email already registered")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create account")
		return
	}
	h.issueToken(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required")
		return
	}
	user, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid email or password")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to sign in")
		return
	}
	h.issueToken(c, http.StatusOK, user)
}

func (h *Handler) issueToken(c *gin.Context, status int, user User) {
	name := ""
	if user.Name != nil {
		name = *user.Name
	}
	token, err := h.Signer.Sign(user.ID, user.Email, name)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}
	respond.JSON(c, status, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusUnauthorized, "session_invalid", middleware.SessionInvalidMessage)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user")
		return
	}
	respond.Data(c, user)
}
