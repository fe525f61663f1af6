package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/bdc-edge/internal/models"
	"github.com/xaenox/bdc-edge/pkg/config"
)

// newTestPostgres connects to the database named by DATABASE_URL.
func newTestPostgres(t *testing.T) *PostgresStorage {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	s, err := NewPostgresStorage(DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresUpsertAndGet(t *testing.T) {
	s := newTestPostgres(t)
	ctx := context.Background()
	dealer := "test-" + uuid.NewString()
	scrapedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertVehicle(ctx, &models.VehicleRecord{
		DealershipID:       dealer,
		VIN:                "1HGBH41JXMN109186",
		Make:               "Honda",
		Model:              "Civic",
		Year:               2021,
		Trim:               "EX",
		Mileage:            32150,
		Price:              18900,
		AvailabilityStatus: models.AvailabilityInStock,
		ImageURLs:          []string{"https://dealer.example/a.jpg", "https://dealer.example/b.png"},
		Details: models.ScrapeDetails{
			ScrapedURL:    "https://dealer.example/listing/42",
			ScrapedAt:     scrapedAt,
			RawHTMLLength: 4096,
		},
	}))
	require.NoError(t, s.UpsertVehicle(ctx, &models.VehicleRecord{
		DealershipID:       dealer,
		VIN:                "1HGBH41JXMN109186",
		Make:               "Honda",
		Model:              "Civic",
		Year:               2021,
		Price:              17500,
		AvailabilityStatus: models.AvailabilitySold,
		Details:            models.ScrapeDetails{ScrapedAt: scrapedAt},
	}))

	got, err := s.GetVehicle(ctx, dealer, "1HGBH41JXMN109186")
	require.NoError(t, err)
	assert.Equal(t, dealer, got.DealershipID)
	assert.Equal(t, 17500.0, got.Price)
	assert.Equal(t, models.AvailabilitySold, got.AvailabilityStatus)
	assert.Equal(t, []string{}, got.ImageURLs)
	assert.True(t, scrapedAt.Equal(got.Details.ScrapedAt))

	list, err := s.ListVehicles(ctx, dealer)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPostgresDetailsRoundTrip(t *testing.T) {
	s := newTestPostgres(t)
	ctx := context.Background()
	dealer := "test-" + uuid.NewString()
	want := models.ScrapeDetails{
		ScrapedURL:    "https://dealer.example/listing/7",
		ScrapedAt:     time.Date(2024, 6, 2, 8, 30, 0, 0, time.UTC),
		RawHTMLLength: 1234,
	}

	require.NoError(t, s.UpsertVehicle(ctx, &models.VehicleRecord{
		DealershipID:       dealer,
		VIN:                "2T1BURHE0JC123456",
		AvailabilityStatus: models.AvailabilityPending,
		ImageURLs:          []string{"https://dealer.example/x.webp"},
		Details:            want,
	}))

	got, err := s.GetVehicle(ctx, dealer, "2T1BURHE0JC123456")
	require.NoError(t, err)
	assert.Equal(t, want.ScrapedURL, got.Details.ScrapedURL)
	assert.Equal(t, want.RawHTMLLength, got.Details.RawHTMLLength)
	assert.True(t, want.ScrapedAt.Equal(got.Details.ScrapedAt))
	assert.Equal(t, []string{"https://dealer.example/x.webp"}, got.ImageURLs)
}

func TestPostgresGetMissingVehicle(t *testing.T) {
	s := newTestPostgres(t)

	_, err := s.GetVehicle(context.Background(), "test-"+uuid.NewString(), "1HGBH41JXMN109186")

	assert.ErrorIs(t, err, ErrNotFound)
}
