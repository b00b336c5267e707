package testutils

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/nominate-go/internal/api/middleware"
	"github.com/linskybing/nominate-go/internal/api/routes"
	"github.com/linskybing/nominate-go/internal/application"
	"go.uber.org/zap"
)

func SetupRouter(svc *application.Services, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.LoggingMiddleware(logger))
	routes.RegisterRoutes(r, svc, logger)
	return r
}
