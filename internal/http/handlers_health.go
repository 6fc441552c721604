package httpx

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// HealthCheck reports process liveness.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
