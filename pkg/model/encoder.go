package model

import "fmt"

// LabelEncoder maps encoded classes back to fertilizer names.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

func (l *LabelEncoder) Inverse(code int) (string, error) {
	if code < 0 || code >= len(l.Classes) {
		return "", fmt.Errorf("%w: %d", ErrLabelOutRange, code)
	}
	return l.Classes[code], nil
}

// FeatureEncoders holds the fitted classes per categorical feature, keyed by
// column name ("Soil Type", "Crop Type").
type FeatureEncoders map[string][]string

func (f FeatureEncoders) Transform(feature, value string) (int, error) {
	if f == nil {
		return 0, ErrNoEncoder
	}
	classes, ok := f[feature]
	if !ok {
		return 0, fmt.Errorf("%w: no encoder for %q", ErrNoEncoder, feature)
	}
	for i, c := range classes {
		if c == value {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s=%q", ErrUnknownValue, feature, value)
}
