package domain

import "fmt"

// PaginationOptions bounds record listings
type PaginationOptions struct {
	Limit    int `json:"limit,omitempty"`
	Offset   int `json:"offset,omitempty"`
	MaxLimit int `json:"max_limit,omitempty"` // Maximum allowed limit
}

// PaginationResult is one page of records in index order
type PaginationResult struct {
	Records []Record `json:"records"`
	HasNext bool     `json:"has_next"`
	HasPrev bool     `json:"has_prev"`
	Total   int      `json:"total"`
}

// DefaultPaginationOptions returns default pagination settings
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		Limit:    50,
		MaxLimit: 1000,
	}
}

// Validate validates pagination options
func (po *PaginationOptions) Validate() error {
	if po.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if po.Offset < 0 {
		return fmt.Errorf("offset cannot be negative")
	}
	if po.MaxLimit > 0 && po.Limit > po.MaxLimit {
		return fmt.Errorf("limit %d exceeds maximum %d", po.Limit, po.MaxLimit)
	}
	return nil
}

// Paginate slices records according to the options. A zero limit returns
// everything after the offset.
func Paginate(records []Record, po *PaginationOptions) *PaginationResult {
	total := len(records)
	start := po.Offset
	if start > total {
		start = total
	}
	end := total
	if po.Limit > 0 && start+po.Limit < total {
		end = start + po.Limit
	}
	return &PaginationResult{
		Records: records[start:end],
		HasNext: end < total,
		HasPrev: start > 0,
		Total:   total,
	}
}
