package endpoints

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kickshopping/kickshop/pkg/server"
)

var (
	renderOnce sync.Once
	rendered   []byte
	renderErr  error
)

// RegisterDocsEndpoints registers /docs and /openapi.json
func RegisterDocsEndpoints(srv *server.Server) {
	srv.Router.HandleFunc("/docs", handleDocs()).Methods("GET")
	srv.Router.HandleFunc("/openapi.json", handleOpenAPI()).Methods("GET")
}

// handleDocs serves the API reference, rendered from the embedded markdown
// on first request and cached for the life of the process.
func handleDocs() http.HandlerFunc {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	return func(w http.ResponseWriter, r *http.Request) {
		renderOnce.Do(func() {
			var buf bytes.Buffer
			buf.WriteString(docsHeader)
			renderErr = md.Convert(apiDocs, &buf)
			buf.WriteString(docsFooter)
			rendered = buf.Bytes()
		})

		if renderErr != nil {
			respondWithError(w, http.StatusInternalServerError, "Error al generar la documentación")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(rendered)
	}
}

func handleOpenAPI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(openAPISpec)
	}
}

const docsHeader = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width">
    <title>Kick Shopping API</title>
    <style>
      body { font-family: sans-serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; }
      code { background: #f4f4f4; padding: 0.1rem 0.3rem; }
      table { border-collapse: collapse; }
      th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
    </style>
  </head>
  <body>
`

const docsFooter = `  </body>
</html>
`
