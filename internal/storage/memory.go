package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/xaenox/bdc-edge/internal/models"
)

type vehicleKey struct {
	dealershipID string
	vin          string
}

type MemoryStorage struct {
	mu       sync.RWMutex
	vehicles map[vehicleKey]*models.VehicleRecord
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		vehicles: make(map[vehicleKey]*models.VehicleRecord),
	}
}

func (s *MemoryStorage) UpsertVehicle(ctx context.Context, vehicle *models.VehicleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vehicles[vehicleKey{vehicle.DealershipID, vehicle.VIN}] = cloneVehicle(vehicle)
	return nil
}

func (s *MemoryStorage) GetVehicle(ctx context.Context, dealershipID, vin string) (*models.VehicleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if vehicle, exists := s.vehicles[vehicleKey{dealershipID, vin}]; exists {
		return cloneVehicle(vehicle), nil
	}
	return nil, ErrNotFound
}

// ListVehicles returns a dealership's vehicles ordered by VIN
func (s *MemoryStorage) ListVehicles(ctx context.Context, dealershipID string) ([]*models.VehicleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vehicles := []*models.VehicleRecord{}
	for key, vehicle := range s.vehicles {
		if key.dealershipID == dealershipID {
			vehicles = append(vehicles, cloneVehicle(vehicle))
		}
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].VIN < vehicles[j].VIN
	})
	return vehicles, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

func cloneVehicle(v *models.VehicleRecord) *models.VehicleRecord {
	c := *v
	c.ImageURLs = append([]string{}, v.ImageURLs...)
	return &c
}
