// pkg/weather/client.go

package weather

import (
	"context"
	"time"
)

// Observation is the part of a current-weather response the recommender uses.
type Observation struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // %
	FetchedAt   time.Time `json:"fetched_at"`
	Cached      bool      `json:"cached,omitempty"`
}

type Client interface {
	// Current issues a single request for the city's current conditions. Any
	// failure is a *FetchError; there are no retries.
	Current(ctx context.Context, city, apiKey string) (*Observation, error)
}
