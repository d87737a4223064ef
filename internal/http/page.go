package httpx

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"neon-time/backend/internal/view"
)

//go:embed web/*.html
var webFS embed.FS

type pageData struct {
	Title       string
	Label       string
	Placeholder string
	Endpoint    string
}

func pageTemplate() (*template.Template, error) {
	return template.ParseFS(webFS, "web/*.html")
}

func (s *Server) page(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{
		Title:       "Go + Neon Demo",
		Label:       "Database time:",
		Placeholder: view.Placeholder,
		Endpoint:    "/api/neon",
	})
}
