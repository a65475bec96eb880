package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	html "github.com/gofiber/template/html/v2"

	"sellerconsole/internal/services"
)

//go:embed templates
var templates embed.FS

// Engine returns the HTML view engine over the embedded templates. Partials
// are addressed by their path, e.g. "partials/head".
func Engine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("join", strings.Join)
	engine.AddFunc("amount", services.FormatAmount)
	return engine
}
