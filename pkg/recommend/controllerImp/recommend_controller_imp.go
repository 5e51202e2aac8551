package controllerImp

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"fert/pkg/middleware"
	"fert/pkg/recommend/service"
	"fert/pkg/recommend/types"
	"fert/pkg/weather"
	"fert/pkg/web"
)

const pageTemplate = "index.html"

type RecommendCtrl struct{ s service.RecommendService }

func New(s service.RecommendService) *RecommendCtrl { return &RecommendCtrl{s} }

func (h *RecommendCtrl) page() web.Page {
	cat := h.s.Catalog()
	return web.Page{Crops: cat.Crops, Soils: cat.Soils, KeyOptional: h.s.KeyConfigured()}
}

func (h *RecommendCtrl) Form(c echo.Context) error {
	p := h.page()
	if len(p.Crops) > 0 {
		p.Form.Crop = p.Crops[0]
	}
	return c.Render(http.StatusOK, pageTemplate, p)
}

// Submit handles the HTML form and re-renders the page with the outcome.
func (h *RecommendCtrl) Submit(c echo.Context) error {
	p := h.page()
	p.Form = web.FormValues{
		City:       c.FormValue("city"),
		Crop:       c.FormValue("crop"),
		Soil:       c.FormValue("soil"),
		Nitrogen:   strings.TrimSpace(c.FormValue("nitrogen")),
		Phosphorus: strings.TrimSpace(c.FormValue("phosphorus")),
		Potassium:  strings.TrimSpace(c.FormValue("potassium")),
		PH:         strings.TrimSpace(c.FormValue("ph")),
		Rainfall:   strings.TrimSpace(c.FormValue("rainfall")),
		Elevation:  strings.TrimSpace(c.FormValue("elevation")),
	}

	apiKey := c.FormValue("api_key")
	if strings.TrimSpace(p.Form.City) == "" || (strings.TrimSpace(apiKey) == "" && !h.s.KeyConfigured()) {
		p.Warning = service.MsgMissingInput
		return c.Render(http.StatusBadRequest, pageTemplate, p)
	}

	req, err := requestFromForm(p.Form)
	if err != nil {
		p.Warning = err.Error()
		return c.Render(http.StatusBadRequest, pageTemplate, p)
	}
	req.APIKey = apiKey
	req.RequestID = middleware.RequestIDFrom(c)

	res, err := h.s.Recommend(c.Request().Context(), req)
	if err != nil {
		code, msg := classify(err)
		if code == http.StatusBadGateway || code == http.StatusInternalServerError {
			p.Error = msg
		} else {
			p.Warning = msg
		}
		return c.Render(code, pageTemplate, p)
	}
	p.Result = res
	return c.Render(http.StatusOK, pageTemplate, p)
}

func (h *RecommendCtrl) Create(c echo.Context) error {
	var req types.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	req.RequestID = middleware.RequestIDFrom(c)

	res, err := h.s.Recommend(c.Request().Context(), req)
	if err != nil {
		code, msg := classify(err)
		body := map[string]string{"error": msg}
		if code == http.StatusBadGateway {
			body["kind"] = string(weather.KindOf(err))
		}
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RecommendCtrl) Catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, h.s.Catalog())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrMissingInput):
		return http.StatusBadRequest, service.MsgMissingInput
	case errors.Is(err, service.ErrUnknownCrop):
		return http.StatusBadRequest, service.MsgUnknownCrop
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, service.MsgInvalidInput
	case errors.Is(err, service.ErrWeatherUnavailable):
		return http.StatusBadGateway, service.MsgWeatherUnavailable
	default:
		log.Printf("[recommend] internal: %v", err)
		return http.StatusInternalServerError, "recommendation failed"
	}
}

func requestFromForm(f web.FormValues) (types.Request, error) {
	req := types.Request{City: f.City, Crop: f.Crop, Soil: f.Soil}
	var err error
	if req.Nitrogen, err = optInt("Nitrogen", f.Nitrogen); err != nil {
		return req, err
	}
	if req.Phosphorus, err = optInt("Phosphorous", f.Phosphorus); err != nil {
		return req, err
	}
	if req.Potassium, err = optInt("Potassium", f.Potassium); err != nil {
		return req, err
	}
	if req.PH, err = optFloat("pH", f.PH); err != nil {
		return req, err
	}
	if req.Rainfall, err = optFloat("Rainfall", f.Rainfall); err != nil {
		return req, err
	}
	if req.Elevation, err = optFloat("Elevation", f.Elevation); err != nil {
		return req, err
	}
	return req, nil
}

func optInt(name, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("Invalid value for %s.", name)
	}
	return &v, nil
}

func optFloat(name, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("Invalid value for %s.", name)
	}
	return &v, nil
}
