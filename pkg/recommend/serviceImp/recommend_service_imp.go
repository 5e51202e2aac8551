package serviceImp

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"fert/pkg/agronomy"
	"fert/pkg/model"
	"fert/pkg/recommend/service"
	"fert/pkg/recommend/types"
	"fert/pkg/weather"
)

type RecommendSvc struct {
	rules     agronomy.RulesEngine
	sampler   *agronomy.Sampler
	wx        weather.Client
	predictor model.Predictor
	apiKey    string
}

// NewRecommendService wires the pipeline. apiKey is the server-side weather
// key used when a request carries none.
func NewRecommendService(r agronomy.RulesEngine, s *agronomy.Sampler, wx weather.Client, p model.Predictor, apiKey string) service.RecommendService {
	return &RecommendSvc{rules: r, sampler: s, wx: wx, predictor: p, apiKey: apiKey}
}

func (s *RecommendSvc) KeyConfigured() bool { return s.apiKey != "" }

func (s *RecommendSvc) Catalog() types.Catalog {
	return types.Catalog{
		Crops:   s.rules.Crops(),
		Soils:   s.rules.Soils(),
		Remarks: s.rules.Remarks(),
		Ranges:  s.rules.Ranges(),
		Labels:  s.predictor.Labels(),
	}
}

func (s *RecommendSvc) Recommend(ctx context.Context, req types.Request) (*types.Result, error) {
	city := strings.TrimSpace(req.City)
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		key = s.apiKey
	}
	if city == "" || key == "" {
		return nil, service.ErrMissingInput
	}
	if !s.rules.ValidCrop(req.Crop) {
		return nil, fmt.Errorf("%w: %q", service.ErrUnknownCrop, req.Crop)
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	obs, err := s.wx.Current(ctx, city, key)
	if err != nil {
		log.Printf("[recommend] %s weather for %q failed (%s): %v", req.RequestID, city, weather.KindOf(err), err)
		return nil, fmt.Errorf("%w: %w", service.ErrWeatherUnavailable, err)
	}

	in := s.inputs(req, obs.Humidity)
	in.SoilCode, in.CropCode, err = s.predictor.Encode(ctx, in.Soil, req.Crop)
	if err != nil {
		log.Printf("[recommend] %s encoder unavailable, sampling codes: %v", req.RequestID, err)
		in.SoilCode, in.CropCode = s.sampler.Code(), s.sampler.Code()
		in.CodesSampled = true
	}

	features := []float64{
		obs.Temperature, obs.Humidity, in.Moisture,
		float64(in.SoilCode), float64(in.CropCode),
		float64(in.Nitrogen), float64(in.Phosphorus), float64(in.Potassium),
		in.PH, in.Rainfall, in.Elevation,
	}

	label, err := s.predictor.Predict(ctx, features)
	if err != nil {
		log.Printf("[recommend] %s predict: %v", req.RequestID, err)
		return nil, fmt.Errorf("%w: %w", service.ErrPrediction, err)
	}

	remark := s.rules.Remark(label)
	res := &types.Result{
		RequestID:      req.RequestID,
		City:           Capitalize(city),
		Crop:           req.Crop,
		Weather:        *obs,
		Inputs:         in,
		Features:       features,
		Fertilizer:     label,
		Remark:         remark,
		RemarkFallback: remark == agronomy.FallbackRemark,
	}
	log.Printf("[recommend] %s city=%s crop=%s temp=%.1f hum=%.0f -> %s", req.RequestID, res.City, req.Crop, obs.Temperature, obs.Humidity, label)
	return res, nil
}

func (s *RecommendSvc) validate(req types.Request) error {
	if req.Soil != "" && !contains(s.rules.Soils(), req.Soil) {
		return fmt.Errorf("%w: soil %q", service.ErrInvalidInput, req.Soil)
	}
	for name, p := range map[string]*float64{"ph": req.PH, "rainfall": req.Rainfall, "elevation": req.Elevation} {
		if p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0)) {
			return fmt.Errorf("%w: %s is not a number", service.ErrInvalidInput, name)
		}
	}
	return nil
}

// inputs fills every agronomic value, preferring what the caller supplied.
func (s *RecommendSvc) inputs(req types.Request, humidity float64) types.Inputs {
	in := types.Inputs{Moisture: agronomy.Moisture(humidity), Assumed: []string{}}
	assume := func(name string) { in.Assumed = append(in.Assumed, name) }

	if in.Soil = req.Soil; in.Soil == "" {
		in.Soil = s.sampler.Soil()
		assume("soil")
	}
	in.Nitrogen = pickInt(req.Nitrogen, s.sampler.Nitrogen, func() { assume("nitrogen") })
	in.Phosphorus = pickInt(req.Phosphorus, s.sampler.Phosphorus, func() { assume("phosphorus") })
	in.Potassium = pickInt(req.Potassium, s.sampler.Potassium, func() { assume("potassium") })
	in.PH = pickFloat(req.PH, s.sampler.PH, func() { assume("ph") })
	in.Rainfall = pickFloat(req.Rainfall, s.sampler.Rainfall, func() { assume("rainfall") })
	in.Elevation = pickFloat(req.Elevation, s.sampler.Elevation, func() { assume("elevation") })
	return in
}

func pickInt(v *int, sample func() int, assumed func()) int {
	if v != nil {
		return *v
	}
	assumed()
	return sample()
}

func pickFloat(v *float64, sample func() float64, assumed func()) float64 {
	if v != nil {
		return *v
	}
	assumed()
	return sample()
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
