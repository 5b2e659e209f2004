package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// maxBatchOps bounds the number of staged writes per request
const maxBatchOps = 10000

// BatchResponse represents the response for batch operations
type BatchResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Index   string            `json:"index"`
	Stats   domain.BatchStats `json:"stats"`
}

// HandleBatch handles POST requests staging inserts, updates and deletes
// against an index and committing them as one batch
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	log.Printf("INFO: handleBatch called for index '%s'", name)

	var ops domain.BatchOps
	if err := decodeBody(r, &ops); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	total := len(ops.Inserts) + len(ops.Updates) + len(ops.Deletes)
	if total == 0 {
		log.Printf("ERROR: No operations provided for batch")
		WriteJSONError(w, http.StatusBadRequest, "No operations provided")
		return
	}
	if total > maxBatchOps {
		log.Printf("ERROR: Too many operations for batch: %d", total)
		WriteJSONError(w, http.StatusBadRequest, "Maximum 10000 operations allowed per batch")
		return
	}

	for _, staged := range []map[string]interface{}{ops.Inserts, ops.Updates} {
		for k, v := range staged {
			n, err := domain.Normalize(v)
			if err != nil {
				log.Printf("ERROR: Invalid value for key '%s': %v", k, err)
				WriteEngineError(w, err)
				return
			}
			staged[k] = n
		}
	}

	stats, err := h.storage.Batch(name, ops)
	if err != nil {
		log.Printf("ERROR: Batch failed for index '%s': %v", name, err)
		WriteEngineError(w, err)
		return
	}
	h.saveAfterWrite(name, "batch")

	response := BatchResponse{
		Success: true,
		Message: "Batch committed successfully",
		Index:   name,
		Stats:   stats,
	}
	writeJSON(w, http.StatusOK, response)

	log.Printf("INFO: Batch on index '%s': %d inserted, %d updated, %d deleted, %d rejected",
		name, stats.Inserted, stats.Updated, stats.Deleted, stats.Rejected)
}
