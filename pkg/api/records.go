package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// InsertResponse reports whether an insert passed the index type filter
type InsertResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
	Index   string `json:"index"`
	Key     string `json:"key"`
}

// HandleInsert handles PUT requests upserting the body as the value of a key
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name, key := vars["name"], vars["key"]

	log.Printf("INFO: handleInsert called for index '%s', key '%s'", name, key)

	var value interface{}
	if err := decodeBody(r, &value); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	value, err := domain.Normalize(value)
	if err != nil {
		log.Printf("ERROR: Invalid value for key '%s': %v", key, err)
		WriteEngineError(w, err)
		return
	}

	result, err := h.storage.Insert(name, key, value)
	if err != nil {
		log.Printf("ERROR: Insert failed for index '%s': %v", name, err)
		WriteEngineError(w, err)
		return
	}

	response := InsertResponse{Success: result == domain.Applied, Result: result.String(), Index: name, Key: key}
	if result == domain.Rejected {
		log.Printf("INFO: Value for key '%s' rejected by index '%s' filter", key, name)
		writeJSON(w, http.StatusUnprocessableEntity, response)
		return
	}
	h.saveAfterWrite(name, "insert")

	writeJSON(w, http.StatusCreated, response)
	log.Printf("INFO: Insert successful for index '%s'", name)
}

// HandleGetByKey handles GET requests for a single record
func (h *Handler) HandleGetByKey(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name, key := vars["name"], vars["key"]

	value, err := h.storage.Get(name, key)
	if err != nil {
		log.Printf("ERROR: Get failed for key '%s' in index '%s': %v", key, name, err)
		WriteEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Record{Key: key, Value: value})
}

// HandleDeleteByKey handles DELETE requests removing a single record
func (h *Handler) HandleDeleteByKey(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name, key := vars["name"], vars["key"]

	log.Printf("INFO: handleDeleteByKey called for index '%s', key '%s'", name, key)

	removed, err := h.storage.Remove(name, key)
	if err != nil {
		log.Printf("ERROR: Delete failed for key '%s' in index '%s': %v", key, name, err)
		WriteEngineError(w, err)
		return
	}
	if !removed {
		WriteJSONError(w, http.StatusNotFound, "record "+key+" does not exist")
		return
	}
	h.saveAfterWrite(name, "delete")

	log.Printf("INFO: Deleted key '%s' from index '%s'", key, name)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetRecords handles GET requests listing records in index order with
// limit/offset pagination
func (h *Handler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	po := domain.DefaultPaginationOptions()
	query := r.URL.Query()
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		po.Limit = n
	}
	if v := query.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "invalid offset parameter")
			return
		}
		po.Offset = n
	}
	if err := po.Validate(); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.storage.Records(name, po)
	if err != nil {
		log.Printf("ERROR: Listing records of index '%s' failed: %v", name, err)
		WriteEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleStream handles GET requests streaming every record as a JSON array.
// Pagination does not apply.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	log.Printf("INFO: handleStream called for index '%s'", name)

	records, err := h.storage.RecordsStream(r.Context(), name)
	if err != nil {
		log.Printf("ERROR: Index '%s' not found: %v", name, err)
		WriteEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte("[\n"))

	first := true
	count := 0
	for record := range records {
		recordJSON, err := json.Marshal(record)
		if err != nil {
			log.Printf("ERROR: Failed to marshal record: %v", err)
			continue // Skip this record and continue streaming
		}
		if !first {
			w.Write([]byte(",\n"))
		}
		first = false

		if _, err := w.Write(recordJSON); err != nil {
			log.Printf("ERROR: Failed to write to response: %v", err)
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		count++
	}

	w.Write([]byte("\n]"))
	log.Printf("INFO: Streamed %d records from index '%s'", count, name)
}
