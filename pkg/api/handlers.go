package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 32 << 20

// Handler provides HTTP handlers for the index API
type Handler struct {
	storage domain.StorageEngine
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(storage domain.StorageEngine) *Handler {
	return &Handler{
		storage: storage,
	}
}

// decodeBody decodes a JSON body keeping integers and floats apart
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}

// saveAfterWrite persists the index when transaction saves are enabled.
// A failed save is logged, not surfaced to the client.
func (h *Handler) saveAfterWrite(name, op string) {
	if err := h.storage.SaveIndexAfterTransaction(name); err != nil {
		log.Printf("WARN: Failed to save index '%s' after %s: %v", name, op, err)
	}
}
