package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"fert/config"
	"fert/database"
	"fert/router"

	"fert/pkg/agronomy"
	"fert/pkg/model"
	"fert/pkg/model/sidecar"

	// Weather
	"fert/pkg/weather"
	weatherRepoImp "fert/pkg/weather/repositoryImp"

	// Recommend
	recCtrlImp "fert/pkg/recommend/controllerImp"
	recSvcImp "fert/pkg/recommend/serviceImp"

	// Health
	healthCtrlImp "fert/pkg/health/controllerImp"
)

type backend interface {
	model.Predictor
	Ready(ctx context.Context) bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1) Config
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.ServerKey() {
		log.Printf("[cfg] WEATHER_API_KEY not set, every request must carry its own key")
	}

	// 2) DB (sqlite) + automigrate
	db := database.OpenSQLite(cfg.DBPath)

	// 3) Catalog, remarks, sampling ranges
	rules, err := agronomy.LoadFromFiles(cfg.RemarksCSV, cfg.SamplingXLSX)
	if err != nil {
		log.Fatalf("rules: %v", err)
	}
	sampler := agronomy.NewSampler(cfg.RandomSeed, rules.Ranges())

	// 4) Weather, optionally cached in sqlite
	wx := weather.NewCached(
		weather.NewOpenWeather(cfg.WeatherBaseURL, cfg.WeatherTimeout),
		weatherRepoImp.New(db),
		cfg.WeatherCacheTTL,
	)

	// 5) Model backend
	var m backend
	switch cfg.ModelBackend {
	case config.BackendSidecar:
		sc := &sidecar.Sidecar{Pat: cfg.ModelDir, Por: cfg.SidecarPort}
		if err := sc.Restore(ctx); err != nil {
			_ = sc.Sigkill()
			log.Fatalf("model sidecar: %v", err)
		}
		defer func() {
			if err := sc.Sigkill(); err != nil {
				log.Printf("model sidecar kill: %v", err)
			}
		}()
		m = sc
	default:
		b, err := model.Load(cfg.ModelDir)
		if err != nil {
			log.Fatalf("model: %v", err)
		}
		m = b
	}

	// 6) Service + controllers
	recSvc := recSvcImp.NewRecommendService(rules, sampler, wx, m, cfg.WeatherAPIKey)
	recCtrl := recCtrlImp.New(recSvc)
	hCtrl := healthCtrlImp.NewHealthCtrl(db, m, cfg.ModelBackend)

	// 7) Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.Logger())
	r := router.New(e, recCtrl, hCtrl)

	// 8) Start
	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := r.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
