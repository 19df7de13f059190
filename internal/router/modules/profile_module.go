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

type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Logger  *logrus.Logger
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt, Redis: rdb, Logger: logger}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/profile")

	// Public
	g.GET("", m.Handler.List)
	g.GET("/user/:user_id", m.Handler.ByUser)
	g.GET("/search", middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), nil), m.Handler.Search)
	g.GET("/github/:username", middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIP(), nil), m.Handler.GithubRepos)

	// Protected
	auth := g.Group("")
	auth.Use(middleware.Auth(m.JWT, m.Logger))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/me", m.Handler.Me)
		auth.POST("", m.Handler.Upsert)
		auth.DELETE("", m.Handler.Delete)
		auth.PUT("/experience", m.Handler.AddExperience)
		auth.DELETE("/experience/:exp_id", m.Handler.RemoveExperience)
		auth.PUT("/education", m.Handler.AddEducation)
		auth.DELETE("/education/:edu_id", m.Handler.RemoveEducation)
	}
}
