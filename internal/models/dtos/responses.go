package dtos

import (
	"time"

	"tyrehub/catalog/internal/models/gorm"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// Paged is one page of a list endpoint.
type Paged[T any] struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
	Items []T   `json:"items"`
}

type NameSlug struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TyreCard is a product as shown in search results.
type TyreCard struct {
	ID         int64                 `json:"id"`
	Slug       string                `json:"slug"`
	Title      string                `json:"title"`
	OrderRank  int                   `json:"order_rank"`
	Brand      *NameSlug             `json:"brand"`
	Model      *NameSlug             `json:"model"`
	Tyre       *gorm.ProductTyreSpec `json:"product_tyres"`
	OfferCount int64                 `json:"offer_count"`
	PriceFrom  *float64              `json:"price_from"`
}

// ImportResult summarizes a finished import run.
type ImportResult struct {
	RunID     string        `json:"run_id"`
	File      string        `json:"file"`
	Total     int           `json:"total"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Batches   int           `json:"batches"`
	Duration  time.Duration `json:"duration_ns"`
}

type ImportStartedResponse struct {
	File string `json:"file"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	UpSince  time.Time                `json:"up_since"`
	Uptime   string                   `json:"uptime"`
}
