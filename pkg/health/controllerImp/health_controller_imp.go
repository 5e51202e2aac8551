package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

// Checker reports whether the model backend can serve predictions.
type Checker interface {
	Ready(ctx context.Context) bool
}

type HealthCtrl struct {
	db      *gorm.DB
	model   Checker
	backend string
}

func NewHealthCtrl(db *gorm.DB, model Checker, backend string) *HealthCtrl {
	return &HealthCtrl{db: db, model: model, backend: backend}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := h.pingDB(ctx)

	model := sub{OK: h.model != nil && h.model.Ready(ctx)}
	if !model.OK {
		model.Err = h.backend + " backend not ready"
	}

	allOK := db.OK && model.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database": db,
			"model":    model,
		},
		"backend": h.backend,
		"time":    time.Now().Format(time.RFC3339),
	}

	return c.JSON(status, resp)
}

func (h *HealthCtrl) pingDB(ctx context.Context) sub {
	if h.db == nil {
		return sub{Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return sub{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return sub{Err: "ping: " + err.Error()}
	}
	return sub{OK: true}
}
