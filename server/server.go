package server

import (
	"context"
	"strconv"
	"time"

	"travelmap/apperrors"
	"travelmap/config"
	"travelmap/pkg/logger"
	"travelmap/pkg/metrics"
	"travelmap/server/handlers"
	"travelmap/server/middleware/security"
	"travelmap/server/routes"
	"travelmap/services/tracker"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	App *fiber.App
	log *logger.Logger
	cfg *config.Config
}

func NewServer(cfg *config.Config, log *logger.Logger, tsrv *tracker.Service, health *handlers.HealthCheckHandler) (*Server, error) {
	// Initialize template engine
	engine := html.New(cfg.Server.ViewsDir, ".html")
	engine.Reload(cfg.Server.Development)
	addTemplateFunctions(engine)

	errorConfig := apperrors.HandlerConfig{
		Logger:             log,
		ShowInternalErrors: cfg.Server.Development,
		OnError: func(c *fiber.Ctx, err *apperrors.AppError) {
			metrics.RecordError(string(err.Code), strconv.Itoa(err.StatusCode))
		},
	}

	app := fiber.New(fiber.Config{
		AppName:      "travelmap",
		Views:        engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: apperrors.Handler(errorConfig),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	setupLogging(app, log)

	app.Use(metrics.HTTPMetricsMiddleware())
	app.Use(security.New(security.Config{
		HSTS: !cfg.Server.Development,
	}))

	app.Static("/static", cfg.Server.StaticDir, fiber.Static{
		Compress:      true,
		Browse:        false,
		CacheDuration: 24 * time.Hour,
		MaxAge:        86400,
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes.NewTrackerRoutes(tsrv, health).Register(app)

	return &Server{
		App: app,
		log: log,
		cfg: cfg,
	}, nil
}

func (s *Server) Start() error {
	addr := s.cfg.ServerAddress()
	s.log.Info("Starting server on %s", addr)
	return s.App.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server...")
	return s.App.ShutdownWithContext(ctx)
}
