package httpx

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// HealthHandler answers liveness probes. HEAD requests get headers only.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
