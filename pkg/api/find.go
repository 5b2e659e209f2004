package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// FindResponse carries the matches of a query in result order
type FindResponse struct {
	Index   string          `json:"index"`
	Count   int             `json:"count"`
	Records []domain.Record `json:"records"`
}

// HandleFind handles GET requests querying an index.
//
// Parameters: field (default "*" for scalar indexes), op (eq|lt|gt|like, default eq), value, and optionally
// order_by (comma separated paths), dir (asc|desc) and limit. Values that
// parse as integers are queried as integers, then floats, otherwise strings.
// A value of type=string forces string interpretation.
func (h *Handler) HandleFind(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	params := r.URL.Query()

	log.Printf("INFO: handleFind called for index '%s'", name)

	opName := params.Get("op")
	if opName == "" {
		opName = "eq"
	}
	op, err := domain.ParseOperator(opName)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	field := params.Get("field")
	if field == "" {
		field = "*"
	}
	q := domain.Query{
		Field: field,
		Op:    op,
		Value: parseValue(params.Get("value"), params.Get("type") == "string" || op == domain.OpLike),
	}

	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteJSONError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		q.Limit = n
	}

	if v := params.Get("order_by"); v != "" {
		dir, err := domain.ParseDirection(params.Get("dir"))
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		var orders []domain.PathOrder
		for _, path := range strings.Split(v, ",") {
			orders = append(orders, domain.PathOrder{Path: strings.TrimSpace(path), Direction: dir})
		}
		config := domain.JSONConfig(orders...)
		q.OrderBy = &config
	}

	records, err := h.storage.FindWhere(name, q)
	if err != nil {
		log.Printf("ERROR: Find on index '%s' failed: %v", name, err)
		WriteEngineError(w, err)
		return
	}

	log.Printf("INFO: Found %d records in index '%s' where %s %s %v", len(records), name, q.Field, q.Op, q.Value)
	writeJSON(w, http.StatusOK, FindResponse{Index: name, Count: len(records), Records: records})
}

// parseValue converts a query parameter to an int64, float64 or string
func parseValue(raw string, asString bool) interface{} {
	if asString {
		return raw
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
