// pkg/weather/cached_client.go

package weather

import (
	"context"
	"log"
	"strings"
	"time"

	"fert/entities"
	"fert/pkg/weather/repository"
)

type cached struct {
	next Client
	repo repository.WeatherRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewCached serves successful observations from repo while they are younger
// than ttl. Times are stored in UTC since SQLite compares them as text.
// Failures are never stored. A non-positive ttl returns next as is.
func NewCached(next Client, repo repository.WeatherRepository, ttl time.Duration) Client {
	if ttl <= 0 || repo == nil {
		return next
	}
	return &cached{next: next, repo: repo, ttl: ttl, now: time.Now}
}

func cacheKey(city string) string { return strings.ToLower(strings.TrimSpace(city)) }

func (c *cached) Current(ctx context.Context, city, apiKey string) (*Observation, error) {
	key := cacheKey(city)
	if hit, err := c.repo.Latest(key, c.now().UTC().Add(-c.ttl)); err != nil {
		log.Printf("[weather] cache read %q: %v", key, err)
	} else if hit != nil {
		return &Observation{
			City:        city,
			Temperature: hit.Temperature,
			Humidity:    hit.Humidity,
			FetchedAt:   hit.FetchedAt,
			Cached:      true,
		}, nil
	}

	obs, err := c.next.Current(ctx, city, apiKey)
	if err != nil {
		return nil, err
	}
	row := &entities.WeatherObservation{
		City:        key,
		Temperature: obs.Temperature,
		Humidity:    obs.Humidity,
		FetchedAt:   obs.FetchedAt.UTC(),
	}
	if err := c.repo.Save(row); err != nil {
		log.Printf("[weather] cache write %q: %v", key, err)
	}
	return obs, nil
}
