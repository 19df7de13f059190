package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bcit-connector/internal/interface/middleware"
	"github.com/oksasatya/bcit-connector/pkg/helpers"
	"github.com/oksasatya/bcit-connector/pkg/response"
)

// serverError logs the cause with request context and writes the plain 500.
func serverError(c *gin.Context, logger *logrus.Logger, msg string, err error) {
	fields := logrus.Fields{
		"request_id": middleware.RequestIDFrom(c),
		"path":       c.FullPath(),
	}
	if uid := middleware.UserID(c); uid != "" {
		fields["user_id"] = uid
	}
	helpers.LogError(logger, msg, err, fields)
	response.ServerError(c)
}
