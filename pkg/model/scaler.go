package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Scaler mirrors a fitted StandardScaler ("standard": (x-mean)/scale) or
// MinMaxScaler ("minmax": x*scale+min).
type Scaler struct {
	Kind  string    `json:"kind"`
	Mean  []float64 `json:"mean,omitempty"`
	Min   []float64 `json:"min,omitempty"`
	Scale []float64 `json:"scale"`
}

func (s *Scaler) validate() error {
	if len(s.Scale) != FeatureCount {
		return fmt.Errorf("scaler: scale has %d entries, want %d", len(s.Scale), FeatureCount)
	}
	switch s.Kind {
	case "", "standard":
		if len(s.Mean) != FeatureCount {
			return fmt.Errorf("scaler: mean has %d entries, want %d", len(s.Mean), FeatureCount)
		}
	case "minmax":
		if len(s.Min) != FeatureCount {
			return fmt.Errorf("scaler: min has %d entries, want %d", len(s.Min), FeatureCount)
		}
	default:
		return fmt.Errorf("scaler: unknown kind %q", s.Kind)
	}
	return nil
}

func (s *Scaler) Transform(x []float64) (*mat.VecDense, error) {
	if len(x) != FeatureCount {
		return nil, fmt.Errorf("%w: got %d", ErrFeatureCount, len(x))
	}
	v := mat.NewVecDense(len(x), append([]float64(nil), x...))

	if s.Kind == "minmax" {
		v.MulElemVec(v, mat.NewVecDense(len(s.Scale), s.Scale))
		v.AddVec(v, mat.NewVecDense(len(s.Min), s.Min))
		return v, nil
	}

	scale := make([]float64, len(s.Scale))
	for i, sc := range s.Scale {
		// zero-variance features keep unit scale
		if sc == 0 {
			sc = 1
		}
		scale[i] = sc
	}
	v.SubVec(v, mat.NewVecDense(len(s.Mean), s.Mean))
	v.DivElemVec(v, mat.NewVecDense(len(scale), scale))
	return v, nil
}
