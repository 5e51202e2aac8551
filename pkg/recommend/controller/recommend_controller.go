package controller

import "github.com/labstack/echo/v4"

type RecommendController interface {
	Form(c echo.Context) error
	Submit(c echo.Context) error
	Create(c echo.Context) error
	Catalog(c echo.Context) error
}
