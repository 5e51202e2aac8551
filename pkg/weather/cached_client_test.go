package weather_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fert/database"
	"fert/pkg/weather"
	"fert/pkg/weather/repositoryImp"
)

type countingClient struct {
	calls int
	err   error
}

func (c *countingClient) Current(_ context.Context, city, _ string) (*weather.Observation, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &weather.Observation{City: city, Temperature: 21.5, Humidity: 70, FetchedAt: time.Now()}, nil
}

func TestCachedServesFreshObservation(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingClient{}
	c := weather.NewCached(inner, repositoryImp.New(db), time.Hour)

	first, err := c.Current(context.Background(), "Pune", "k")
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first call should not be cached")
	}
	second, err := c.Current(context.Background(), "  pune ", "k")
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.Temperature != 21.5 || second.Humidity != 70 {
		t.Fatalf("expected cached hit, got %+v", second)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", inner.calls)
	}
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingClient{err: &weather.FetchError{Kind: weather.KindNotFound, Status: 404}}
	c := weather.NewCached(inner, repositoryImp.New(db), time.Hour)

	for i := 0; i < 2; i++ {
		if _, err := c.Current(context.Background(), "Atlantis", "k"); err == nil {
			t.Fatal("expected error")
		}
	}
	if inner.calls != 2 {
		t.Fatalf("failures must reach upstream every time, got %d calls", inner.calls)
	}
}

func TestCachedDisabled(t *testing.T) {
	inner := &countingClient{}
	if c := weather.NewCached(inner, nil, time.Hour); c != weather.Client(inner) {
		t.Fatal("nil repo should return the inner client")
	}
	db, err := database.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	if c := weather.NewCached(inner, repositoryImp.New(db), 0); c != weather.Client(inner) {
		t.Fatal("zero ttl should return the inner client")
	}
}
