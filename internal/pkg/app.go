package pkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"paytrack/internal/app/config"
	"paytrack/internal/app/handler"
	"paytrack/internal/app/middleware"

	_ "paytrack/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Application struct {
	Config         *config.Config
	Router         *gin.Engine
	Handler        *handler.APIHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewApp(c *config.Config, r *gin.Engine, h *handler.APIHandler, am *middleware.AuthMiddleware) *Application {
	return &Application{
		Config:         c,
		Router:         r,
		Handler:        h,
		AuthMiddleware: am,
	}
}

// SetupRoutes подключает CORS, swagger и маршруты API
func (a *Application) SetupRoutes() {
	corsConfig := cors.DefaultConfig()
	if len(a.Config.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = a.Config.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowHeaders("Authorization")
	a.Router.Use(cors.New(corsConfig))

	a.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	a.Handler.RegisterAPIRoutes(a.Router, a.AuthMiddleware)
}

// RunApp запускает сервер и останавливает его при отмене ctx
func (a *Application) RunApp(ctx context.Context) error {
	logrus.Info("Server start up")

	a.SetupRoutes()

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	srv := &http.Server{
		Addr:              serverAddress,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Starting server on %s", serverAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logrus.Info("Server down")
	return nil
}
