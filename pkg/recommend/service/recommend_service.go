package service

import (
	"context"
	"errors"

	"fert/pkg/recommend/types"
)

// User-facing messages.
const (
	MsgMissingInput       = "Please enter both City Name and API Key."
	MsgWeatherUnavailable = "Could not fetch weather data. Please check your API Key or City Name."
	MsgUnknownCrop        = "Please select one of the listed Crop Types."
	MsgInvalidInput       = "Please check the optional soil values."
)

var (
	ErrMissingInput       = errors.New("recommend: city and api key are required")
	ErrUnknownCrop        = errors.New("recommend: unknown crop type")
	ErrInvalidInput       = errors.New("recommend: invalid agronomic input")
	ErrWeatherUnavailable = errors.New("recommend: weather unavailable")
	ErrPrediction         = errors.New("recommend: prediction failed")
)

type RecommendService interface {
	Recommend(ctx context.Context, req types.Request) (*types.Result, error)
	Catalog() types.Catalog
	// KeyConfigured reports whether a server-side weather key is present.
	KeyConfigured() bool
}
