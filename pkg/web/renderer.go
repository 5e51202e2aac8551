package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"fert/pkg/recommend/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the view model of the recommendation page.
type Page struct {
	Crops       []string
	Soils       []string
	KeyOptional bool
	Form        FormValues
	Warning     string
	Error       string
	Result      *types.Result
}

// FormValues echoes what the user typed so the form survives a submit.
type FormValues struct {
	City       string
	Crop       string
	Soil       string
	Nitrogen   string
	Phosphorus string
	Potassium  string
	PH         string
	Rainfall   string
	Elevation  string
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() *Renderer {
	funcs := template.FuncMap{
		"assumed": func(r *types.Result, name string) bool {
			for _, a := range r.Inputs.Assumed {
				if a == name {
					return true
				}
			}
			return false
		},
	}
	return &Renderer{templates: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
