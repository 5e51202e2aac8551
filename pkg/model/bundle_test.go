package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// vector builds a feature vector around the fixture scaler's means with the
// given nitrogen and phosphorus.
func vector(n, p float64) []float64 {
	return []float64{25, 60, 36, 3, 5, n, p, 45, 6.5, 200, 125}
}

func copyFixture(t *testing.T, skip ...string) string {
	t.Helper()
	dir := t.TempDir()
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[s] = true
	}
	for _, name := range []string{ScalerFile, LabelEncoderFile, ClassifierFile, FeatureEncodersFile} {
		if skipped[name] {
			continue
		}
		data, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadAndPredict(t *testing.T) {
	b, err := Load("testdata")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()

	cases := []struct {
		n, p float64
		want string
	}{
		{80, 10, "Urea"},
		{10, 80, "DAP"},
		{10, 10, "Compost"},
	}
	for _, tc := range cases {
		got, err := b.Predict(ctx, vector(tc.n, tc.p))
		if err != nil {
			t.Fatalf("predict: %v", err)
		}
		if got != tc.want {
			t.Fatalf("N=%v P=%v: got %q want %q", tc.n, tc.p, got, tc.want)
		}
	}

	if _, err := b.Predict(ctx, []float64{1, 2, 3}); !errors.Is(err, ErrFeatureCount) {
		t.Fatalf("expected feature count error, got %v", err)
	}
	if got := b.Labels(); len(got) != 3 || got[2] != "Urea" {
		t.Fatalf("labels: %v", got)
	}
}

func TestEncode(t *testing.T) {
	b, err := Load("testdata")
	if err != nil {
		t.Fatal(err)
	}
	s, c, err := b.Encode(context.Background(), "Loamy", "Wheat")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if s != 3 || c != 5 {
		t.Fatalf("got soil=%d crop=%d", s, c)
	}
	if _, _, err := b.Encode(context.Background(), "Peaty", "Wheat"); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("expected unknown value error, got %v", err)
	}
}

func TestLoadWithoutFeatureEncoders(t *testing.T) {
	b, err := Load(copyFixture(t, FeatureEncodersFile))
	if err != nil {
		t.Fatalf("feature encoders are optional: %v", err)
	}
	if b.HasEncoders() {
		t.Fatal("no encoders expected")
	}
	if _, _, err := b.Encode(context.Background(), "Loamy", "Wheat"); !errors.Is(err, ErrNoEncoder) {
		t.Fatalf("expected ErrNoEncoder, got %v", err)
	}
	if _, err := b.Predict(context.Background(), vector(80, 10)); err != nil {
		t.Fatalf("prediction must still work: %v", err)
	}
}

func TestLoadRequiredArtifactsMissing(t *testing.T) {
	for _, name := range []string{ScalerFile, LabelEncoderFile, ClassifierFile} {
		if _, err := Load(copyFixture(t, name)); err == nil {
			t.Fatalf("missing %s should fail", name)
		}
	}
}

func TestMinMaxScaler(t *testing.T) {
	s := &Scaler{Kind: "minmax", Min: make([]float64, FeatureCount), Scale: make([]float64, FeatureCount)}
	for i := range s.Scale {
		s.Scale[i] = 0.5
		s.Min[i] = -1
	}
	if err := s.validate(); err != nil {
		t.Fatal(err)
	}
	x := make([]float64, FeatureCount)
	x[0] = 4
	v, err := s.Transform(x)
	if err != nil {
		t.Fatal(err)
	}
	if v.AtVec(0) != 1 || v.AtVec(1) != -1 {
		t.Fatalf("unexpected transform: %v", mat.Formatted(v.T()))
	}
	if x[0] != 4 {
		t.Fatal("input must not be modified")
	}
}

func TestStandardScalerZeroScale(t *testing.T) {
	s := &Scaler{Mean: make([]float64, FeatureCount), Scale: make([]float64, FeatureCount)}
	x := make([]float64, FeatureCount)
	x[3] = 2
	v, err := s.Transform(x)
	if err != nil {
		t.Fatal(err)
	}
	if v.AtVec(3) != 2 {
		t.Fatalf("zero scale should act as 1, got %v", v.AtVec(3))
	}
}

func TestForestClassifier(t *testing.T) {
	stump := Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, 0, 0},
		Threshold:     []float64{0, 0, 0},
		Value:         [][]float64{{5, 3}, {5, 0}, {0, 3}},
	}
	c := &Classifier{Kind: "forest", Classes: []int{1, 0}, Trees: []Tree{stump, stump}}
	if err := c.prepare(); err != nil {
		t.Fatal(err)
	}

	x := mat.NewVecDense(FeatureCount, nil)
	x.SetVec(0, -1)
	if got, _ := c.Predict(x); got != 1 {
		t.Fatalf("left leaf: got class %d", got)
	}
	x.SetVec(0, 1)
	if got, _ := c.Predict(x); got != 0 {
		t.Fatalf("right leaf: got class %d", got)
	}
}

func TestForestRejectsCycles(t *testing.T) {
	c := &Classifier{Kind: "forest", Trees: []Tree{{
		ChildrenLeft:  []int{0},
		ChildrenRight: []int{0},
		Feature:       []int{0},
		Threshold:     []float64{0},
		Value:         [][]float64{{1, 1}},
	}}}
	if err := c.prepare(); err == nil {
		t.Fatal("self-referencing node must be rejected")
	}
}

func TestBinaryLinear(t *testing.T) {
	row := make([]float64, FeatureCount)
	row[0] = 1
	c := &Classifier{Kind: "linear", Coef: [][]float64{row}, Intercept: []float64{0}}
	if err := c.prepare(); err != nil {
		t.Fatal(err)
	}
	x := mat.NewVecDense(FeatureCount, nil)
	x.SetVec(0, 2)
	if got, _ := c.Predict(x); got != 1 {
		t.Fatalf("positive score should pick class 1, got %d", got)
	}
	x.SetVec(0, -2)
	if got, _ := c.Predict(x); got != 0 {
		t.Fatalf("negative score should pick class 0, got %d", got)
	}
}

func TestLabelOutOfRange(t *testing.T) {
	l := &LabelEncoder{Classes: []string{"Urea"}}
	if _, err := l.Inverse(3); !errors.Is(err, ErrLabelOutRange) {
		t.Fatalf("expected ErrLabelOutRange, got %v", err)
	}
}
