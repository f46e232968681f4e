package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/use-agent/tarzi/convert"
)

type convertRequest struct {
	HTML      string `json:"html" binding:"required"`
	SourceURL string `json:"source_url"`
	Format    string `json:"format"`
}

// Convert converts a raw HTML payload to the requested format, bypassing
// fetch entirely for callers that already have the page content.
func Convert(conv *convert.Converter, defaultFormat string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req convertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"success": false, "error": gin.H{"code": "bad_request", "message": err.Error()}})
			return
		}
		if req.Format == "" {
			req.Format = defaultFormat
		}
		out, err := conv.Convert(req.HTML, req.SourceURL, convert.FormatFromString(req.Format))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, gin.H{"content": out})
	}
}
