package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Artifact file names inside the model directory.
const (
	ScalerFile          = "scaler.json"
	LabelEncoderFile    = "label_encoder.json"
	ClassifierFile      = "fertilizer_recommendation_model.json"
	FeatureEncodersFile = "feature_encoders.json"
)

// Bundle is the native Predictor over JSON exports of the fitted artifacts.
// It is read-only after Load and safe for concurrent use.
type Bundle struct {
	scaler     *Scaler
	labels     *LabelEncoder
	classifier *Classifier
	encoders   FeatureEncoders
}

// Load reads the artifacts from dir. The scaler, label encoder and classifier
// are required; feature encoders are optional and a missing or unreadable
// file only disables them.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{scaler: &Scaler{}, labels: &LabelEncoder{}, classifier: &Classifier{}}

	if err := readJSON(filepath.Join(dir, ScalerFile), b.scaler); err != nil {
		return nil, err
	}
	if err := b.scaler.validate(); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, LabelEncoderFile), b.labels); err != nil {
		return nil, err
	}
	if len(b.labels.Classes) == 0 {
		return nil, errors.New("label encoder: no classes")
	}
	if err := readJSON(filepath.Join(dir, ClassifierFile), b.classifier); err != nil {
		return nil, err
	}
	if err := b.classifier.prepare(); err != nil {
		return nil, err
	}

	var enc FeatureEncoders
	if err := readJSON(filepath.Join(dir, FeatureEncodersFile), &enc); err != nil {
		log.Printf("[model] feature encoders unavailable, categorical fallback in use: %v", err)
	} else {
		b.encoders = enc
	}

	log.Printf("[model] loaded %s classifier with %d labels from %s", b.classifier.Kind, len(b.labels.Classes), dir)
	return b, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (b *Bundle) Encode(_ context.Context, soil, crop string) (int, int, error) {
	s, err := b.encoders.Transform(SoilFeature, soil)
	if err != nil {
		return 0, 0, err
	}
	c, err := b.encoders.Transform(CropFeature, crop)
	if err != nil {
		return 0, 0, err
	}
	return s, c, nil
}

func (b *Bundle) Predict(_ context.Context, features []float64) (string, error) {
	x, err := b.scaler.Transform(features)
	if err != nil {
		return "", err
	}
	code, err := b.classifier.Predict(x)
	if err != nil {
		return "", err
	}
	return b.labels.Inverse(code)
}

func (b *Bundle) Labels() []string { return append([]string(nil), b.labels.Classes...) }

// HasEncoders reports whether categorical encoders were loaded.
func (b *Bundle) HasEncoders() bool { return b.encoders != nil }

// Ready is always true once Load succeeded.
func (b *Bundle) Ready(context.Context) bool { return true }
