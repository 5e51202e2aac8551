package agronomy

import "testing"

func TestSamplerStaysInRange(t *testing.T) {
	rg := DefaultRanges()
	s := NewSampler(7, rg)

	seenSoil := map[string]bool{}
	seenCode := map[int]bool{}
	for i := 0; i < 2000; i++ {
		for _, v := range []int{s.Nitrogen(), s.Phosphorus(), s.Potassium()} {
			if v < 10 || v > 80 {
				t.Fatalf("nutrient out of range: %d", v)
			}
		}
		if v := s.PH(); v < 5.5 || v > 7.5 {
			t.Fatalf("ph out of range: %v", v)
		}
		if v := s.Rainfall(); v < 100 || v > 300 {
			t.Fatalf("rainfall out of range: %v", v)
		}
		if v := s.Elevation(); v < 50 || v > 200 {
			t.Fatalf("elevation out of range: %v", v)
		}
		c := s.Code()
		if c < 0 || c > 5 {
			t.Fatalf("code out of range: %d", c)
		}
		seenCode[c] = true
		seenSoil[s.Soil()] = true
	}
	if len(seenSoil) != len(soils) {
		t.Fatalf("expected all %d soils, saw %v", len(soils), seenSoil)
	}
	if len(seenCode) != 6 {
		t.Fatalf("expected codes 0..5, saw %v", seenCode)
	}
}

func TestSamplerDeterministicWithSeed(t *testing.T) {
	a := NewSampler(99, DefaultRanges())
	b := NewSampler(99, DefaultRanges())
	for i := 0; i < 20; i++ {
		if a.Nitrogen() != b.Nitrogen() || a.Soil() != b.Soil() || a.PH() != b.PH() {
			t.Fatal("same seed should give the same sequence")
		}
	}
}

func TestSamplerDegenerateRange(t *testing.T) {
	rg := DefaultRanges()
	rg.Nitrogen = IntRange{42, 42}
	rg.PH = FloatRange{6.8, 6.8}
	s := NewSampler(1, rg)
	if s.Nitrogen() != 42 || s.PH() != 6.8 {
		t.Fatal("degenerate range should return its bound")
	}
}
