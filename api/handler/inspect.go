package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/bingdict/bing"
	"github.com/use-agent/bingdict/dict"
	"github.com/use-agent/bingdict/models"
)

// Inspect returns a handler for GET /api/v1/inspect.
//
// It fetches the dictionary page for q and reports page metadata and whether
// the description tag was found. Meant for diagnosing layout changes.
func Inspect(client *bing.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TranslateRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.InspectResponse{
				Error: &models.ErrorDetail{Code: models.ErrCodeInvalidInput, Message: err.Error()},
			})
			return
		}

		info, res, err := client.Inspect(c.Request.Context(), req.Query)
		if err != nil {
			de := models.Classify(err)
			c.JSON(mapErrorToStatus(de), models.InspectResponse{Error: de.ToDetail()})
			return
		}

		c.JSON(http.StatusOK, models.InspectResponse{
			Success:        true,
			SourceURL:      res.FinalURL,
			HasDescription: dict.HasDescription(res.Body),
			Title:          info.Title,
			Description:    info.Description,
			Canonical:      info.Canonical,
			Language:       info.Language,
			Excerpt:        info.Excerpt,
			Engine:         res.EngineName,
		})
	}
}
