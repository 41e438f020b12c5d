package models

// TranslateRequest holds the query parameters of GET /api/v1/translate.
type TranslateRequest struct {
	// Query is the word or phrase to look up. Required.
	Query string `form:"q" binding:"required,max=200"`

	// Format controls the response shape.
	// Allowed: "json" (default), "text".
	Format string `form:"format" binding:"omitempty,oneof=json text"`

	// NoCache bypasses the paraphrase cache for this lookup.
	NoCache bool `form:"no_cache"`
}

// Defaults applies default values to unset fields.
func (r *TranslateRequest) Defaults() {
	if r.Format == "" {
		r.Format = "json"
	}
}
