package agronomy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FallbackRemark is shown for any predicted label missing from the remark table.
const FallbackRemark = "🌿 Fertilizer recommended for balanced plant growth."

// MoistureFactor derives soil moisture (%) from relative humidity (%).
const MoistureFactor = 0.6

var crops = []string{"Wheat", "Rice", "Sugarcane", "Maize", "Cotton", "Barley"}

var soils = []string{"Loamy", "Sandy", "Clayey", "Black", "Red", "Alluvial"}

var defaultRemarks = map[string]string{
	"Urea":                       "High Nitrogen fertilizer, good for leafy growth.",
	"DAP":                        "High Phosphorus fertilizer, promotes root development.",
	"14-35-14":                   "Balanced fertilizer for flowering and fruiting.",
	"28-28":                      "Balanced fertilizer for overall growth.",
	"17-17-17":                   "General-purpose fertilizer for all crops.",
	"20-20":                      "Starter fertilizer for young plants.",
	"10-26-26":                   "High phosphorus and potassium for maturity.",
	"General Purpose Fertilizer": "Good for maintaining healthy plants.",
	"NPK 19-19-19":               "Balanced nutrients for strong flowering.",
	"Compost":                    "Organic material for improving soil health.",
	"Vermicompost":               "Natural worm-based fertilizer.",
	"Cow Manure":                 "Organic fertilizer improving soil structure.",
	"Potash":                     "Increases disease resistance and quality.",
	"Superphosphate":             "Helps strong root development and flowering.",
}

type IntRange struct{ Min, Max int }

type FloatRange struct{ Min, Max float64 }

// Ranges bounds every synthesized input. All bounds are inclusive.
type Ranges struct {
	Nitrogen   IntRange   `json:"nitrogen"`
	Phosphorus IntRange   `json:"phosphorus"`
	Potassium  IntRange   `json:"potassium"`
	PH         FloatRange `json:"ph"`
	Rainfall   FloatRange `json:"rainfall"`
	Elevation  FloatRange `json:"elevation"`
	Code       IntRange   `json:"code"` // fallback categorical code
}

func DefaultRanges() Ranges {
	return Ranges{
		Nitrogen:   IntRange{10, 80},
		Phosphorus: IntRange{10, 80},
		Potassium:  IntRange{10, 80},
		PH:         FloatRange{5.5, 7.5},
		Rainfall:   FloatRange{100.0, 300.0},
		Elevation:  FloatRange{50.0, 200.0},
		Code:       IntRange{0, 5},
	}
}

type RulesEngine interface {
	Crops() []string
	Soils() []string
	ValidCrop(string) bool
	Remark(label string) string
	Remarks() map[string]string
	Ranges() Ranges
}

type rules struct {
	remarks map[string]string
	ranges  Ranges
}

func Default() RulesEngine {
	r := &rules{remarks: map[string]string{}, ranges: DefaultRanges()}
	for k, v := range defaultRemarks {
		r.remarks[k] = v
	}
	return r
}

// LoadFromFiles layers optional overrides on top of the defaults. A path
// that does not exist is skipped; a file that exists but cannot be read is
// an error.
func LoadFromFiles(remarksCSV, rangesXLSX string) (RulesEngine, error) {
	r := Default().(*rules)

	if remarksCSV != "" {
		if err := r.loadRemarksCSV(remarksCSV); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("remarks csv: %w", err)
			}
			log.Printf("[agronomy] %s not found, using built-in remarks", remarksCSV)
		}
	}
	if rangesXLSX != "" {
		if err := r.loadRangesXLSX(rangesXLSX); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("sampling xlsx: %w", err)
			}
			log.Printf("[agronomy] %s not found, using built-in ranges", rangesXLSX)
		}
	}
	return r, nil
}

func (r *rules) loadRemarksCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	head, err := cr.Read()
	if err != nil {
		return err
	}
	// header row is optional
	if !isHeader(head, "fertilizer") {
		r.putRemark(head)
	}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		r.putRemark(rec)
	}
	return nil
}

func (r *rules) putRemark(rec []string) {
	if len(rec) < 2 {
		return
	}
	name := strings.TrimSpace(strings.TrimPrefix(rec[0], "\uFEFF"))
	remark := strings.TrimSpace(rec[1])
	if name == "" || remark == "" {
		return
	}
	r.remarks[name] = remark
}

func (r *rules) loadRangesXLSX(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	x, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer x.Close()

	sheet := "Ranges"
	if idx, _ := x.GetSheetIndex(sheet); idx < 0 {
		sheet = x.GetSheetName(0)
	}
	rows, err := x.GetRows(sheet)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) < 3 {
			continue
		}
		if i == 0 && isHeader(row, "feature") {
			continue
		}
		lo, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return fmt.Errorf("row %d: min: %w", i+1, err)
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return fmt.Errorf("row %d: max: %w", i+1, err)
		}
		if lo > hi {
			return fmt.Errorf("row %d: min %v > max %v", i+1, lo, hi)
		}
		if err := r.ranges.set(row[0], lo, hi); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

func (rg *Ranges) set(feature string, lo, hi float64) error {
	switch normalize(feature) {
	case "nitrogen", "n":
		rg.Nitrogen = IntRange{int(lo), int(hi)}
	case "phosphorus", "p":
		rg.Phosphorus = IntRange{int(lo), int(hi)}
	case "potassium", "k":
		rg.Potassium = IntRange{int(lo), int(hi)}
	case "ph":
		rg.PH = FloatRange{lo, hi}
	case "rainfall":
		rg.Rainfall = FloatRange{lo, hi}
	case "elevation":
		rg.Elevation = FloatRange{lo, hi}
	default:
		return fmt.Errorf("unknown feature %q", feature)
	}
	return nil
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func isHeader(rec []string, first string) bool {
	return len(rec) > 0 && normalize(rec[0]) == first
}

func (r *rules) Crops() []string { return append([]string(nil), crops...) }

func (r *rules) Soils() []string { return append([]string(nil), soils...) }

func (r *rules) ValidCrop(c string) bool {
	for _, v := range crops {
		if v == c {
			return true
		}
	}
	return false
}

func (r *rules) Remark(label string) string {
	if v, ok := r.remarks[label]; ok {
		return v
	}
	return FallbackRemark
}

func (r *rules) Remarks() map[string]string {
	out := make(map[string]string, len(r.remarks))
	for k, v := range r.remarks {
		out[k] = v
	}
	return out
}

func (r *rules) Ranges() Ranges { return r.ranges }

// Moisture is the estimated soil moisture for a relative humidity reading.
func Moisture(humidity float64) float64 { return humidity * MoistureFactor }
