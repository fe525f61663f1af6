package models

import (
	"time"
)

type AvailabilityStatus string

const (
	AvailabilityInStock AvailabilityStatus = "in_stock"
	AvailabilitySold    AvailabilityStatus = "sold"
	AvailabilityPending AvailabilityStatus = "pending"
)

type ScrapeDetails struct {
	ScrapedURL    string    `json:"scraped_url"`
	ScrapedAt     time.Time `json:"scraped_at"`
	RawHTMLLength int       `json:"raw_html_length"`
}

// VehicleRecord is a vehicle listing extracted from a dealer page
type VehicleRecord struct {
	DealershipID       string             `json:"dealership_id,omitempty"`
	VIN                string             `json:"vin"`
	Make               string             `json:"make"`
	Model              string             `json:"model"`
	Year               int                `json:"year"`
	Trim               string             `json:"trim"`
	Mileage            int                `json:"mileage"`
	Price              float64            `json:"price"`
	AvailabilityStatus AvailabilityStatus `json:"availability_status"`
	ImageURLs          []string           `json:"image_urls"`
	Details            ScrapeDetails      `json:"details"`
}
