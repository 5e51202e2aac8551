// Package model runs the pre-trained fertilizer classifier. The artifacts are
// treated as opaque: their feature order and scaling are taken on trust.
package model

import (
	"context"
	"errors"
)

// FeatureNames is the order in which the classifier expects its inputs.
var FeatureNames = [...]string{
	"Temperature", "Humidity", "Moisture", "Soil Type", "Crop Type",
	"Nitrogen", "Phosphorous", "Potassium", "pH", "Rainfall", "Elevation",
}

const FeatureCount = len(FeatureNames)

const (
	SoilFeature = "Soil Type"
	CropFeature = "Crop Type"
)

var (
	ErrNoEncoder     = errors.New("model: feature encoders not loaded")
	ErrUnknownValue  = errors.New("model: value not seen during training")
	ErrFeatureCount  = errors.New("model: wrong number of features")
	ErrLabelOutRange = errors.New("model: predicted class has no label")
)

type Predictor interface {
	// Encode maps soil and crop names to the integer codes used in training.
	// Any error means the caller should fall back to its own codes.
	Encode(ctx context.Context, soil, crop string) (soilCode, cropCode int, err error)
	// Predict scales and classifies one feature vector and returns the
	// fertilizer name.
	Predict(ctx context.Context, features []float64) (string, error)
	// Labels lists every fertilizer name the classifier can return.
	Labels() []string
}
