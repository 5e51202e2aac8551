package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCurrentSuccess(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{"q": q.Get("q"), "appid": q.Get("appid"), "units": q.Get("units")}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"main":{"temp":25,"humidity":60,"pressure":1012},"name":"Chennai"}`))
	}))
	defer srv.Close()

	c := NewOpenWeather(srv.URL+"/", time.Second)
	obs, err := c.Current(context.Background(), "Chennai", "k123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.Temperature != 25 || obs.Humidity != 60 {
		t.Fatalf("unexpected observation: %+v", obs)
	}
	if obs.City != "Chennai" || obs.FetchedAt.IsZero() {
		t.Fatalf("city/time not set: %+v", obs)
	}
	want := map[string]string{"q": "Chennai", "appid": "k123", "units": "metric"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Fatalf("query %s: got %q want %q", k, gotQuery[k], v)
		}
	}
}

func TestCurrentFailures(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		kind     Kind
		sentinel error
	}{
		{"bad key", 401, `{"cod":401,"message":"Invalid API key"}`, KindUnauthorized, ErrUnauthorized},
		{"unknown city", 404, `{"cod":"404","message":"city not found"}`, KindNotFound, ErrCityNotFound},
		{"server error", 500, `oops`, KindBadStatus, ErrBadStatus},
		{"not json", 200, `<html>`, KindMalformed, ErrMalformed},
		{"missing humidity", 200, `{"main":{"temp":20}}`, KindMalformed, ErrMalformed},
		{"missing main", 200, `{"weather":[]}`, KindMalformed, ErrMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			obs, err := NewOpenWeather(srv.URL, time.Second).Current(context.Background(), "X", "k")
			if obs != nil {
				t.Fatalf("expected no observation, got %+v", obs)
			}
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}
			if KindOf(err) != tc.kind {
				t.Fatalf("kind: got %q want %q", KindOf(err), tc.kind)
			}
		})
	}
}

func TestCurrentNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewOpenWeather(url, time.Second).Current(context.Background(), "X", "k")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Status != 0 {
		t.Fatalf("expected FetchError without status, got %#v", err)
	}
}

func TestCurrentTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewOpenWeather(srv.URL, 20*time.Millisecond).Current(context.Background(), "X", "k")
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected network kind on timeout, got %v", err)
	}
}
