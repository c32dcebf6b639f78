package endpoints

import (
	"net/http"

	"github.com/kickshopping/kickshop/pkg/server"
)

// RegisterStaticFiles registers static file serving for product images and
// other storefront assets. The directory comes from configuration; when it
// is unset the routes still exist and answer 404.
func RegisterStaticFiles(srv *server.Server) {
	staticDir := srv.Config.StaticDir

	if staticDir != "" {
		srv.Router.PathPrefix("/static/").Handler(
			http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))),
		)
	} else {
		srv.Router.PathPrefix("/static/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
	}

	// Serve favicon.ico (return 404 if not present)
	srv.Router.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}
