package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/bcit-connector/internal/interface/http"
	"github.com/oksasatya/bcit-connector/internal/interface/middleware"
	"github.com/oksasatya/bcit-connector/pkg/helpers"
)

// AuthModule wires registration, login and identity lookup.
// Public: POST /api/users, POST /api/auth (10 req/min per IP each)
// Protected: GET /api/auth
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Logger  *logrus.Logger
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Redis: rdb, Logger: logger}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.POST("/auth", loginLimiter, m.Handler.Login)
	rg.GET("/auth", middleware.Auth(m.JWT, m.Logger), m.Handler.Me)
}
