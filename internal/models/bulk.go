package models

// BulkRequest selects records for a bulk admin operation
type BulkRequest struct {
	IDs []string `json:"ids"`
}

// BulkStatusRequest sets one status on many records
type BulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status Status   `json:"status"`
}

// BulkItemResult is the outcome of a bulk operation for one record
type BulkItemResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkResponse summarizes a bulk operation with per-item results
type BulkResponse struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []BulkItemResult `json:"results"`
}

// NewBulkResponse tallies per-item results
func NewBulkResponse(results []BulkItemResult) *BulkResponse {
	resp := &BulkResponse{Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	return resp
}
