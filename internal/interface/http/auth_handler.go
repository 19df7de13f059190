package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bcit-connector/internal/application"
	"github.com/oksasatya/bcit-connector/internal/interface/middleware"
	"github.com/oksasatya/bcit-connector/pkg/response"
	"github.com/oksasatya/bcit-connector/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

var registerMessages = validation.Messages{
	"name":     "Name is required",
	"email":    "Please include a valid email",
	"password": "Please enter a password with 6 or more characters",
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var loginMessages = validation.Messages{
	"email":    "Please include a valid email",
	"password": "Password is required",
}

// Register handles POST /api/users.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := validation.Bind(c, &req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, registerMessages)...)
		return
	}

	token, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		IP:        middleware.ClientIP(c),
		UserAgent: c.Request.UserAgent(),
	})
	if errors.Is(err, application.ErrUserExists) {
		response.Error(c, http.StatusBadRequest, "User already exists.")
		return
	}
	if err != nil {
		serverError(c, h.Logger, "register failed", err)
		return
	}
	response.Token(c, token)
}

// Login handles POST /api/auth.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := validation.Bind(c, &req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, loginMessages)...)
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, application.ErrInvalidCredentials) {
		response.Error(c, http.StatusBadRequest, "Invalid credentials.")
		return
	}
	if err != nil {
		serverError(c, h.Logger, "login failed", err)
		return
	}
	response.Token(c, token)
}

// Me handles GET /api/auth.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), middleware.UserID(c))
	if errors.Is(err, application.ErrUserNotFound) {
		response.Message(c, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		serverError(c, h.Logger, "identity lookup failed", err)
		return
	}
	response.OK(c, u)
}
