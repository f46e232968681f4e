package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/use-agent/tarzi/convert"
	"github.com/use-agent/tarzi/fetch"
)

type fetchRequest struct {
	URL    string `json:"url" binding:"required"`
	Mode   string `json:"mode"`
	Format string `json:"format"`
}

// Fetch fetches a URL and converts it to the requested format.
func Fetch(f *fetch.Fetcher, defaultMode, defaultFormat string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req fetchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"success": false, "error": gin.H{"code": "bad_request", "message": err.Error()}})
			return
		}
		if req.Mode == "" {
			req.Mode = defaultMode
		}
		if req.Format == "" {
			req.Format = defaultFormat
		}
		content, err := f.Fetch(c.Request.Context(), req.URL, fetch.ModeFromString(req.Mode), convert.FormatFromString(req.Format))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, gin.H{"content": content})
	}
}
