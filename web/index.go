package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/etnz/tally"
	"github.com/etnz/tally/renderer"
	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var page = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>tally</title>
<style>
body { font-family: monospace; max-width: 60em; margin: auto; }
table { border-collapse: collapse; }
td, th { padding: 0 1em; }
</style>
</head>
<body>
<p><a href="/export">[save]</a></p>
{{.Orders}}
<hr>
{{.Positions}}
</body>
</html>
`))

// handleIndex renders the orders and the portfolio views as HTML.
func (s *Server) handleIndex(c *gin.Context) {
	var orders, positions bytes.Buffer
	err := s.session.View(func(b *tally.Book) error {
		p, err := tally.Positions(c.Request.Context(), b, s.session.prices)
		if err != nil {
			return err
		}
		if err := markdown.Convert([]byte(renderer.OrdersMarkdown(b)), &orders); err != nil {
			return err
		}
		return markdown.Convert([]byte(renderer.PositionsMarkdown(p)), &positions)
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	var out bytes.Buffer
	// goldmark escapes user text and drops raw HTML, its output is safe.
	err = page.Execute(&out, struct{ Orders, Positions template.HTML }{
		template.HTML(orders.String()),
		template.HTML(positions.String()),
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", out.Bytes())
}
