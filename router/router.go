package router

import (
	"github.com/labstack/echo/v4"

	"fert/pkg/middleware"
	"fert/pkg/recommend/controller"
	"fert/pkg/web"
)

func New(
	e *echo.Echo,
	recCtrl controller.RecommendController,
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(middleware.RequestID())
	if e.Renderer == nil {
		e.Renderer = web.NewRenderer()
	}

	e.GET("/", recCtrl.Form)
	e.POST("/recommend", recCtrl.Submit)
	e.GET("/health", healthCtrl.Health)

	api := e.Group("/api/v1")
	api.POST("/recommendations", recCtrl.Create)
	api.GET("/catalog", recCtrl.Catalog)
	return e
}
