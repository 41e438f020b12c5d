package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/bingdict/api/middleware"
	"github.com/use-agent/bingdict/bing"
	"github.com/use-agent/bingdict/models"
)

// PostBatch returns a handler for POST /api/v1/translate/batch.
// Every query is charged against the caller's rate limit. Lookups run
// concurrently; a failed lookup is reported in its own slot and does not
// fail the batch.
func PostBatch(client *bing.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.BatchResponse{
				Error: &models.ErrorDetail{Code: models.ErrCodeInvalidInput, Message: err.Error()},
			})
			return
		}
		if len(req.Queries) > models.MaxBatchQueries {
			c.JSON(http.StatusBadRequest, models.BatchResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: fmt.Sprintf("maximum %d queries per batch", models.MaxBatchQueries),
				},
			})
			return
		}
		if !middleware.ChargeBatch(c, len(req.Queries)) {
			return
		}
		req.Defaults()

		results := client.TranslateMany(c.Request.Context(), req.Queries, req.Concurrency)

		resp := models.BatchResponse{
			Success: true,
			Total:   len(results),
			Results: make([]*models.TranslateResponse, len(results)),
		}
		for i, r := range results {
			if r.Err != nil {
				resp.Failed++
				resp.Results[i] = &models.TranslateResponse{
					Query: r.Query,
					Error: models.Classify(r.Err).ToDetail(),
				}
				continue
			}
			resp.Results[i] = buildResponse(r.Query, r.Result)
			if resp.Results[i].Found {
				resp.Found++
			}
		}
		resp.Timing = models.TimingInfo{TotalMs: time.Since(start).Milliseconds()}

		c.JSON(http.StatusOK, resp)
	}
}
