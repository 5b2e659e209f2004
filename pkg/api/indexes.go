package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// HandleCreateIndex handles POST requests creating a named index from an IndexConfig body
func (h *Handler) HandleCreateIndex(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	log.Printf("INFO: handleCreateIndex called for index '%s'", name)

	var config domain.IndexConfig
	if err := decodeBody(r, &config); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.storage.CreateIndex(name, config); err != nil {
		log.Printf("ERROR: Create index '%s' failed: %v", name, err)
		WriteEngineError(w, err)
		return
	}
	h.saveAfterWrite(name, "create")

	response := map[string]interface{}{
		"success": true,
		"message": "Index created successfully",
		"index":   name,
		"config":  config,
	}
	writeJSON(w, http.StatusCreated, response)

	log.Printf("INFO: Created %s index '%s'", config.Kind, name)
}

// HandleGetIndex handles GET requests describing a named index
func (h *Handler) HandleGetIndex(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	info, err := h.storage.GetIndexInfo(name)
	if err != nil {
		log.Printf("ERROR: Index '%s' not found: %v", name, err)
		WriteEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleDropIndex handles DELETE requests removing a named index
func (h *Handler) HandleDropIndex(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	log.Printf("INFO: handleDropIndex called for index '%s'", name)

	if err := h.storage.DropIndex(name); err != nil {
		log.Printf("ERROR: Drop index '%s' failed: %v", name, err)
		WriteEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetIndexes handles GET requests listing every index
func (h *Handler) HandleGetIndexes(w http.ResponseWriter, r *http.Request) {
	indexes := h.storage.GetIndexes()

	response := map[string]interface{}{
		"success":     true,
		"indexes":     indexes,
		"index_count": len(indexes),
	}
	writeJSON(w, http.StatusOK, response)

	log.Printf("INFO: Retrieved %d indexes", len(indexes))
}
