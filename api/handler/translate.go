package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/bingdict/bing"
	"github.com/use-agent/bingdict/models"
)

// Translate returns a handler for GET /api/v1/translate.
//
// Flow:
//  1. Bind & validate query parameters, apply defaults.
//  2. Client.Translate → cache lookup, fetch, parse.
//  3. Render JSON (or plain text for format=text).
func Translate(client *bing.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.TranslateRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.TranslateResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		res, err := client.Translate(c.Request.Context(), req.Query, !req.NoCache)
		if err != nil {
			de := models.Classify(err)
			c.JSON(mapErrorToStatus(de), models.TranslateResponse{
				Success: false,
				Query:   req.Query,
				Error:   de.ToDetail(),
				Timing:  models.TimingInfo{TotalMs: time.Since(start).Milliseconds()},
			})
			return
		}

		resp := buildResponse(req.Query, res)
		resp.Timing = models.TimingInfo{TotalMs: time.Since(start).Milliseconds()}

		if req.Format == "text" {
			if !resp.Found {
				c.String(http.StatusNotFound, "no result for %q\n", req.Query)
				return
			}
			c.Header("X-Cache", resp.CacheStatus)
			c.String(http.StatusOK, resp.Paraphrase.String())
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func buildResponse(query string, res *bing.Result) *models.TranslateResponse {
	resp := &models.TranslateResponse{
		Success:     true,
		Query:       query,
		Found:       res.Paraphrase != nil,
		Paraphrase:  res.Paraphrase,
		CacheStatus: "miss",
	}
	if res.Cached {
		resp.CacheStatus = "hit"
	}
	if res.Paraphrase != nil {
		resp.Text = res.Paraphrase.String()
	}
	return resp
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.DictError) int {
	switch e.Code {
	case models.ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeUpstream, models.ErrCodePageLayout, models.ErrCodeDecode:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
