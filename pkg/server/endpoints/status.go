package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kickshopping/kickshop/pkg/server"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(srv *server.Server) {
	health := srv.Stores.Health

	srv.Router.HandleFunc("/", handleIndex()).Methods("GET")
	srv.Router.HandleFunc("/health", handleHealth(health)).Methods("GET")
}

func handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{
			"message": "Kick Shopping API",
			"status":  "running",
			"version": "1.0.0",
		})
	}
}

func handleHealth(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := health.Ping(); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "database connectivity check failed",
			})
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]string{
			"status":     "healthy",
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"request_id": uuid.NewString(),
			"service":    "Kick Shopping API",
		})
	}
}
