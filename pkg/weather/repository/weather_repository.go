package repository

import (
	"time"

	"fert/entities"
)

type WeatherRepository interface {
	Save(o *entities.WeatherObservation) error
	// Latest returns the newest observation for city fetched at or after
	// since, or nil when there is none.
	Latest(city string, since time.Time) (*entities.WeatherObservation, error)
}
