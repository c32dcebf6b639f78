package endpoints

import (
	"encoding/json"
	"net/http"
)

func respondWithError(w http.ResponseWriter, code int, detail interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"detail": detail})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// decodeJSON parses the request body into dst. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return false
	}
	return true
}
