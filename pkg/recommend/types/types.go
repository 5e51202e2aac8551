package types

import (
	"fert/pkg/agronomy"
	"fert/pkg/weather"
)

// Request is one recommendation ask. Any agronomic value left nil is sampled.
type Request struct {
	City   string `json:"city"`
	APIKey string `json:"api_key,omitempty"`
	Crop   string `json:"crop"`

	Soil       string   `json:"soil,omitempty"`
	Nitrogen   *int     `json:"nitrogen,omitempty"`
	Phosphorus *int     `json:"phosphorus,omitempty"`
	Potassium  *int     `json:"potassium,omitempty"`
	PH         *float64 `json:"ph,omitempty"`
	Rainfall   *float64 `json:"rainfall,omitempty"`
	Elevation  *float64 `json:"elevation,omitempty"`

	RequestID string `json:"-"`
}

type Inputs struct {
	Moisture   float64 `json:"moisture"`
	Soil       string  `json:"soil"`
	Nitrogen   int     `json:"nitrogen"`
	Phosphorus int     `json:"phosphorus"`
	Potassium  int     `json:"potassium"`
	PH         float64 `json:"ph"`
	Rainfall   float64 `json:"rainfall"`
	Elevation  float64 `json:"elevation"`

	SoilCode int `json:"soil_code"`
	CropCode int `json:"crop_code"`
	// CodesSampled is set when the encoder failed and both codes are random.
	CodesSampled bool `json:"codes_sampled"`
	// Assumed names every input that was sampled instead of supplied.
	Assumed []string `json:"assumed"`
}

type Result struct {
	RequestID      string              `json:"request_id,omitempty"`
	City           string              `json:"city"`
	Crop           string              `json:"crop"`
	Weather        weather.Observation `json:"weather"`
	Inputs         Inputs              `json:"inputs"`
	Features       []float64           `json:"features"`
	Fertilizer     string              `json:"fertilizer"`
	Remark         string              `json:"remark"`
	RemarkFallback bool                `json:"remark_fallback"`
}

type Catalog struct {
	Crops   []string          `json:"crops"`
	Soils   []string          `json:"soils"`
	Remarks map[string]string `json:"remarks"`
	Ranges  agronomy.Ranges   `json:"ranges"`
	Labels  []string          `json:"labels"`
}
