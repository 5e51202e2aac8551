package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port            string
	DBPath          string
	ModelDir        string
	ModelBackend    string // native|sidecar
	SidecarPort     int
	WeatherBaseURL  string
	WeatherAPIKey   string
	WeatherTimeout  time.Duration
	WeatherCacheTTL time.Duration
	RemarksCSV      string
	SamplingXLSX    string
	RandomSeed      int64
}

// ServerKey reports whether a weather API key is configured server side, in
// which case the form field becomes optional.
func (c AppConfig) ServerKey() bool { return c.WeatherAPIKey != "" }

// Model backends accepted in MODEL_BACKEND.
const (
	BackendNative  = "native"
	BackendSidecar = "sidecar"
)

// Validate rejects settings that would otherwise be silently misread.
func (c AppConfig) Validate() error {
	switch c.ModelBackend {
	case BackendNative, BackendSidecar:
		return nil
	default:
		return fmt.Errorf("MODEL_BACKEND=%q, want %q or %q", c.ModelBackend, BackendNative, BackendSidecar)
	}
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	cfg := FromEnv(os.Getenv)
	log.Printf("[cfg] %+v", cfg.redacted())
	return cfg
}

// FromEnv builds the config from a lookup func so tests don't touch the
// process environment.
func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}
	dur := func(k string, def time.Duration) time.Duration {
		v := getenv(k)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("[cfg] bad %s=%q, using %s", k, v, def)
			return def
		}
		return d
	}
	sidecarPort, err := strconv.Atoi(get("SIDECAR_PORT", "8765"))
	if err != nil || sidecarPort <= 0 {
		sidecarPort = 8765
	}
	seed, _ := strconv.ParseInt(get("RANDOM_SEED", "0"), 10, 64)

	return AppConfig{
		Port:            get("PORT", "8080"),
		DBPath:          get("DB_PATH", "fertilizer.db"),
		ModelDir:        get("MODEL_DIR", "."),
		ModelBackend:    get("MODEL_BACKEND", BackendNative),
		SidecarPort:     sidecarPort,
		WeatherBaseURL:  get("WEATHER_BASE_URL", "http://api.openweathermap.org"),
		WeatherAPIKey:   get("WEATHER_API_KEY", ""),
		WeatherTimeout:  dur("WEATHER_TIMEOUT", 10*time.Second),
		WeatherCacheTTL: dur("WEATHER_CACHE_TTL", 0),
		RemarksCSV:      get("REMARKS_CSV", "Remarks.csv"),
		SamplingXLSX:    get("SAMPLING_XLSX", "SamplingRanges.xlsx"),
		RandomSeed:      seed,
	}
}

func (c AppConfig) redacted() AppConfig {
	if c.WeatherAPIKey != "" {
		c.WeatherAPIKey = "***"
	}
	return c
}
