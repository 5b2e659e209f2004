package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	router.HandleFunc("/stats", h.HandleStats).Methods("GET")

	// Index operations
	router.HandleFunc("/indexes", h.HandleGetIndexes).Methods("GET")
	router.HandleFunc("/indexes/{name}", h.HandleCreateIndex).Methods("POST")
	router.HandleFunc("/indexes/{name}", h.HandleGetIndex).Methods("GET")
	router.HandleFunc("/indexes/{name}", h.HandleDropIndex).Methods("DELETE")

	// Record operations
	router.HandleFunc("/indexes/{name}/records", h.HandleGetRecords).Methods("GET")
	router.HandleFunc("/indexes/{name}/stream", h.HandleStream).Methods("GET")
	router.HandleFunc("/indexes/{name}/records/{key}", h.HandleInsert).Methods("PUT")
	router.HandleFunc("/indexes/{name}/records/{key}", h.HandleGetByKey).Methods("GET")
	router.HandleFunc("/indexes/{name}/records/{key}", h.HandleDeleteByKey).Methods("DELETE")

	// Batch operations
	router.HandleFunc("/indexes/{name}/batch", h.HandleBatch).Methods("POST")

	// Queries
	router.HandleFunc("/indexes/{name}/find", h.HandleFind).Methods("GET")
}
