package storage

import (
	"context"
	"errors"

	"github.com/xaenox/bdc-edge/internal/models"
)

var ErrNotFound = errors.New("vehicle not found")

// VehicleStore persists scraped vehicles keyed by dealership and VIN
type VehicleStore interface {
	UpsertVehicle(ctx context.Context, vehicle *models.VehicleRecord) error
	GetVehicle(ctx context.Context, dealershipID, vin string) (*models.VehicleRecord, error)
	ListVehicles(ctx context.Context, dealershipID string) ([]*models.VehicleRecord, error)
	Close() error
}
