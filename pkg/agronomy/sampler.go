package agronomy

import (
	"math/rand"
	"sync"
	"time"
)

// Sampler draws the synthesized agronomic inputs. It is safe for concurrent
// use; a single instance is shared by all requests.
type Sampler struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	ranges Ranges
}

// NewSampler seeds from the clock when seed is 0.
func NewSampler(seed int64, ranges Ranges) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{rnd: rand.New(rand.NewSource(seed)), ranges: ranges}
}

func (s *Sampler) Soil() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return soils[s.rnd.Intn(len(soils))]
}

func (s *Sampler) Nitrogen() int   { return s.intn(s.ranges.Nitrogen) }
func (s *Sampler) Phosphorus() int { return s.intn(s.ranges.Phosphorus) }
func (s *Sampler) Potassium() int  { return s.intn(s.ranges.Potassium) }

func (s *Sampler) PH() float64        { return s.uniform(s.ranges.PH) }
func (s *Sampler) Rainfall() float64  { return s.uniform(s.ranges.Rainfall) }
func (s *Sampler) Elevation() float64 { return s.uniform(s.ranges.Elevation) }

// Code is the stand-in for a categorical encoding when no encoder can serve.
func (s *Sampler) Code() int { return s.intn(s.ranges.Code) }

func (s *Sampler) intn(r IntRange) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + s.rnd.Intn(r.Max-r.Min+1)
}

func (s *Sampler) uniform(r FloatRange) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.Min + s.rnd.Float64()*(r.Max-r.Min)
}
