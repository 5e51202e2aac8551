package entities

import "time"

// WeatherObservation is a cached current-weather reading for a city.
type WeatherObservation struct {
	ObsID       uint      `gorm:"primaryKey" json:"obs_id"`
	City        string    `gorm:"index" json:"city"` // lower-cased lookup key
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	FetchedAt   time.Time `gorm:"index" json:"fetched_at"`
	CreatedAt   time.Time
}
