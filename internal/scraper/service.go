package scraper

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xaenox/bdc-edge/internal/metrics"
	"github.com/xaenox/bdc-edge/internal/models"
	"github.com/xaenox/bdc-edge/internal/storage"
)

type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Service fetches a listing page, extracts the vehicle and optionally records it in a store.
type Service struct {
	fetcher   PageFetcher
	extractor *Extractor
	store     storage.VehicleStore
	logger    *zap.Logger
}

// NewService wires a scrape pipeline; store may be nil.
func NewService(fetcher PageFetcher, extractor *Extractor, store storage.VehicleStore, logger *zap.Logger) *Service {
	if extractor == nil {
		extractor = NewExtractor()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher:   fetcher,
		extractor: extractor,
		store:     store,
		logger:    logger,
	}
}

func (s *Service) Scrape(ctx context.Context, url, dealershipID, knownVIN string) (*models.VehicleRecord, error) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.observe(err)
		return nil, err
	}

	vehicle, err := s.extractor.Extract(page, url, knownVIN)
	if err != nil {
		s.observe(err)
		return nil, err
	}
	vehicle.DealershipID = dealershipID
	s.observe(nil)

	if s.store != nil {
		// A failed upsert does not fail the scrape.
		if err := s.store.UpsertVehicle(ctx, vehicle); err != nil {
			s.logger.Error("Failed to save vehicle",
				zap.Error(err),
				zap.String("dealership_id", dealershipID),
				zap.String("vin", vehicle.VIN))
		}
	}

	s.logger.Info("Scraped vehicle",
		zap.String("url", url),
		zap.String("dealership_id", dealershipID),
		zap.String("vin", vehicle.VIN),
		zap.String("availability_status", string(vehicle.AvailabilityStatus)),
		zap.Int("images", len(vehicle.ImageURLs)))

	return vehicle, nil
}

func (s *Service) observe(err error) {
	var fetchErr *FetchError
	var extractErr *ExtractionError
	outcome := "ok"
	switch {
	case err == nil:
	case errors.As(err, &fetchErr):
		outcome = "fetch_error"
	case errors.As(err, &extractErr):
		outcome = "extraction_error"
	default:
		outcome = "error"
	}
	metrics.ScrapesTotal.WithLabelValues(outcome).Inc()
}
