package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/xaenox/bdc-edge/internal/models"
	"github.com/xaenox/bdc-edge/internal/storage"
)

type AIResponseRequest struct {
	LeadID   string                      `json:"lead_id"`
	Message  string                      `json:"message"`
	Context  *models.ConversationContext `json:"context"`
	AIConfig *models.ModelParameters     `json:"ai_config"`
}

func (r *AIResponseRequest) validate() error {
	var missing []string
	if r.LeadID == "" {
		missing = append(missing, "lead_id")
	}
	if r.Message == "" {
		missing = append(missing, "message")
	}
	if r.Context == nil {
		missing = append(missing, "context")
	}
	if r.AIConfig == nil {
		missing = append(missing, "ai_config")
	}
	return missingFields(missing...)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type WebScraperRequest struct {
	URL          string `json:"url"`
	DealershipID string `json:"dealership_id"`
	VIN          string `json:"vin,omitempty"`
}

func (r *WebScraperRequest) validate() error {
	var missing []string
	if r.URL == "" {
		missing = append(missing, "url")
	}
	if r.DealershipID == "" {
		missing = append(missing, "dealership_id")
	}
	return missingFields(missing...)
}

type WebScraperResponse struct {
	Success          bool                  `json:"success"`
	VehicleData      *models.VehicleRecord `json:"vehicle_data,omitempty"`
	Error            string                `json:"error,omitempty"`
	Details          string                `json:"details,omitempty"`
	ProcessingTimeMs int64                 `json:"processing_time_ms"`
}

func (s *Server) handleAIResponse(c echo.Context) error {
	var req AIResponseRequest
	if err := bindBody(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	reply, err := s.generator.Generate(c.Request().Context(), req.LeadID, req.Message, *req.Context, *req.AIConfig)
	if err != nil {
		s.logger.Error("AI response generation failed",
			zap.Error(err),
			zap.String("error_kind", errorKind(err)),
			zap.String("lead_id", req.LeadID))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to generate AI response",
			Details: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, reply)
}

func (s *Server) handleWebScraper(c echo.Context) error {
	start := time.Now()

	var req WebScraperRequest
	if err := bindBody(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, WebScraperResponse{Error: err.Error()})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, WebScraperResponse{Error: err.Error()})
	}

	vehicle, err := s.scraper.Scrape(c.Request().Context(), req.URL, req.DealershipID, req.VIN)
	if err != nil {
		s.logger.Error("Web scrape failed",
			zap.Error(err),
			zap.String("error_kind", errorKind(err)),
			zap.String("url", req.URL),
			zap.String("dealership_id", req.DealershipID))
		return c.JSON(http.StatusInternalServerError, WebScraperResponse{
			Success:          false,
			Error:            "Failed to scrape vehicle data",
			Details:          err.Error(),
			ProcessingTimeMs: 0,
		})
	}

	return c.JSON(http.StatusOK, WebScraperResponse{
		Success:          true,
		VehicleData:      vehicle,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleGetVehicle(c echo.Context) error {
	if s.store == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: storage.ErrNotFound.Error()})
	}

	vehicle, err := s.store.GetVehicle(c.Request().Context(), c.Param("dealership_id"), strings.ToUpper(c.Param("vin")))
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	}
	if err != nil {
		s.logger.Error("Failed to load vehicle", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load vehicle", Details: err.Error()})
	}

	return c.JSON(http.StatusOK, vehicle)
}

func (s *Server) handleListVehicles(c echo.Context) error {
	if s.store == nil {
		return c.JSON(http.StatusOK, []*models.VehicleRecord{})
	}

	vehicles, err := s.store.ListVehicles(c.Request().Context(), c.Param("dealership_id"))
	if err != nil {
		s.logger.Error("Failed to list vehicles", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list vehicles", Details: err.Error()})
	}

	return c.JSON(http.StatusOK, vehicles)
}
