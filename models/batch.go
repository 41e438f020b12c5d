package models

// MaxBatchQueries caps the number of queries in one batch request.
const MaxBatchQueries = 50

// BatchRequest is the payload for POST /api/v1/translate/batch.
type BatchRequest struct {
	// Queries is the list of words or phrases to look up.
	Queries []string `json:"queries" binding:"required,min=1,dive,required,max=200"`

	// Concurrency overrides the number of parallel lookups (default 4, max 8).
	Concurrency int `json:"concurrency,omitempty" binding:"omitempty,min=1,max=8"`
}

// Defaults applies default values to unset fields.
func (r *BatchRequest) Defaults() {
	if r.Concurrency == 0 {
		r.Concurrency = 4
	}
}

// BatchResponse is the response for POST /api/v1/translate/batch.
type BatchResponse struct {
	Success bool                 `json:"success"`
	Total   int                  `json:"total"`
	Found   int                  `json:"found"`
	Failed  int                  `json:"failed"`
	Results []*TranslateResponse `json:"results"`
	Timing  TimingInfo           `json:"timing"`
	Error   *ErrorDetail         `json:"error,omitempty"`
}
