package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xaenox/bdc-edge/internal/models"
	"github.com/xaenox/bdc-edge/internal/storage"
)

const corsAllowHeaders = "authorization, x-client-info, apikey, content-type"

type ReplyGenerator interface {
	Generate(ctx context.Context, leadID, message string, conv models.ConversationContext, params models.ModelParameters) (*models.Reply, error)
}

type VehicleScraper interface {
	Scrape(ctx context.Context, url, dealershipID, knownVIN string) (*models.VehicleRecord, error)
}

// Server exposes the reply generator and the scraper over HTTP
type Server struct {
	echo      *echo.Echo
	address   string
	generator ReplyGenerator
	scraper   VehicleScraper
	store     storage.VehicleStore
	logger    *zap.Logger
}

// NewServer builds the router; store may be nil, in which case vehicle lookups 404.
func NewServer(address string, generator ReplyGenerator, scraper VehicleScraper, store storage.VehicleStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(cors)
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())

	s := &Server{
		echo:      e,
		address:   address,
		generator: generator,
		scraper:   scraper,
		store:     store,
		logger:    logger,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	for _, prefix := range []string{"", "/functions/v1"} {
		s.echo.POST(prefix+"/ai-response", s.handleAIResponse)
		s.echo.POST(prefix+"/web-scraper", s.handleWebScraper)
	}

	s.echo.GET("/vehicles/:dealership_id", s.handleListVehicles)
	s.echo.GET("/vehicles/:dealership_id/:vin", s.handleGetVehicle)
}

// ServeHTTP lets the server be mounted or exercised with httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start serves until ctx is cancelled, then shuts down within shutdownTimeout.
func (s *Server) Start(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting API server", zap.String("address", s.address))
		if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.echo.Shutdown(shutdownCtx)
}

// cors answers every preflight with 200 "ok" and allows any origin.
func cors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
		if c.Request().Method == http.MethodOptions {
			return c.String(http.StatusOK, "ok")
		}
		return next(c)
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("HTTP request", fields...)
			return nil
		},
	})
}
