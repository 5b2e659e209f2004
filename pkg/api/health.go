package api

import (
	"net/http"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Indexes int    `json:"indexes"`
}

// HandleHealth handles GET requests to the health check endpoint
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Message: "go-jsonindex is running",
		Indexes: len(h.storage.GetIndexes()),
	}

	writeJSON(w, http.StatusOK, response)
}

// HandleStats handles GET requests reporting memory and catalog statistics
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.storage.GetMemoryStats())
}
