// pkg/weather/openweather_client.go

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type openWeather struct {
	endpoint string
	httpc    *http.Client
	now      func() time.Time
}

// NewOpenWeather talks to the OpenWeatherMap current-weather API rooted at
// endpoint (e.g. http://api.openweathermap.org).
func NewOpenWeather(endpoint string, timeout time.Duration) Client {
	return &openWeather{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpc:    &http.Client{Timeout: timeout},
		now:      time.Now,
	}
}

func (c *openWeather) Current(ctx context.Context, city, apiKey string) (*Observation, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("[weather] GET %q: %v", city, err)
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		kind := kindForStatus(resp.StatusCode)
		log.Printf("[weather] GET %q: status %d (%s)", city, resp.StatusCode, kind)
		return nil, &FetchError{Kind: kind, Status: resp.StatusCode, Err: errors.New(apiMessage(body))}
	}

	var out struct {
		Main *struct {
			Temp     *float64 `json:"temp"`
			Humidity *float64 `json:"humidity"`
		} `json:"main"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &FetchError{Kind: KindMalformed, Status: resp.StatusCode, Err: err}
	}
	if out.Main == nil || out.Main.Temp == nil || out.Main.Humidity == nil {
		return nil, &FetchError{Kind: KindMalformed, Status: resp.StatusCode, Err: errors.New("missing main.temp or main.humidity")}
	}

	return &Observation{
		City:        city,
		Temperature: *out.Main.Temp,
		Humidity:    *out.Main.Humidity,
		FetchedAt:   c.now(),
	}, nil
}

// apiMessage pulls the "message" field out of an OpenWeatherMap error body.
func apiMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return e.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		s = "empty body"
	}
	return s
}
