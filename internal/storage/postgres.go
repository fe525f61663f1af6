package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/xaenox/bdc-edge/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	if err := storage.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	logger.Info("Connected to PostgreSQL",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.String("dbname", config.DBName))

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) UpsertVehicle(ctx context.Context, vehicle *models.VehicleRecord) error {
	details, err := json.Marshal(vehicle.Details)
	if err != nil {
		return fmt.Errorf("error encoding vehicle details: %w", err)
	}
	imageURLs := vehicle.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	query := `
		INSERT INTO vehicles (id, dealership_id, vin, make, model, year, trim, mileage, price,
			availability_status, image_urls, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (dealership_id, vin) DO UPDATE SET
			make = EXCLUDED.make,
			model = EXCLUDED.model,
			year = EXCLUDED.year,
			trim = EXCLUDED.trim,
			mileage = EXCLUDED.mileage,
			price = EXCLUDED.price,
			availability_status = EXCLUDED.availability_status,
			image_urls = EXCLUDED.image_urls,
			details = EXCLUDED.details,
			updated_at = NOW()`

	_, err = s.db.ExecContext(ctx, query,
		uuid.NewString(),
		vehicle.DealershipID,
		vehicle.VIN,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.Trim,
		vehicle.Mileage,
		vehicle.Price,
		string(vehicle.AvailabilityStatus),
		pq.Array(imageURLs),
		details,
	)
	if err != nil {
		return fmt.Errorf("error upserting vehicle: %w", err)
	}

	return nil
}

const vehicleColumns = `dealership_id, vin, make, model, year, trim, mileage, price,
	availability_status, image_urls, details`

func (s *PostgresStorage) GetVehicle(ctx context.Context, dealershipID, vin string) (*models.VehicleRecord, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE dealership_id = $1 AND vin = $2`

	vehicle, err := scanVehicle(s.db.QueryRowContext(ctx, query, dealershipID, vin))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying vehicle: %w", err)
	}
	return vehicle, nil
}

func (s *PostgresStorage) ListVehicles(ctx context.Context, dealershipID string) ([]*models.VehicleRecord, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE dealership_id = $1 ORDER BY vin`

	rows, err := s.db.QueryContext(ctx, query, dealershipID)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []*models.VehicleRecord{}
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*models.VehicleRecord, error) {
	var (
		vehicle models.VehicleRecord
		status  string
		details []byte
	)
	err := row.Scan(
		&vehicle.DealershipID,
		&vehicle.VIN,
		&vehicle.Make,
		&vehicle.Model,
		&vehicle.Year,
		&vehicle.Trim,
		&vehicle.Mileage,
		&vehicle.Price,
		&status,
		pq.Array(&vehicle.ImageURLs),
		&details,
	)
	if err != nil {
		return nil, err
	}
	vehicle.AvailabilityStatus = models.AvailabilityStatus(status)
	if vehicle.ImageURLs == nil {
		vehicle.ImageURLs = []string{}
	}
	if err := json.Unmarshal(details, &vehicle.Details); err != nil {
		return nil, fmt.Errorf("error decoding vehicle details: %w", err)
	}
	return &vehicle, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
