package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/use-agent/tarzi/convert"
	"github.com/use-agent/tarzi/dispatcher"
	"github.com/use-agent/tarzi/fetch"
	"github.com/use-agent/tarzi/search"
)

type searchRequest struct {
	Query string `json:"query" binding:"required"`
	Mode  string `json:"mode"`
	Limit int    `json:"limit"`
}

// Search runs a query against the configured dispatcher and returns its
// ranked results.
func Search(d *dispatcher.Dispatcher, defaultMode string, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req searchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"success": false, "error": gin.H{"code": "bad_request", "message": err.Error()}})
			return
		}
		if req.Mode == "" {
			req.Mode = defaultMode
		}
		if req.Limit == 0 {
			req.Limit = defaultLimit
		}
		results, err := d.Search(c.Request.Context(), req.Query, search.ModeFromString(req.Mode), req.Limit)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, results)
	}
}

type searchAndFetchRequest struct {
	Query      string `json:"query" binding:"required"`
	Mode       string `json:"mode"`
	Limit      int    `json:"limit"`
	FetchMode  string `json:"fetch_mode"`
	Format     string `json:"format"`
}

// SearchAndFetch runs a query then fetches and converts every result page.
func SearchAndFetch(d *dispatcher.Dispatcher, defaultMode string, defaultLimit int, defaultFetchMode, defaultFormat string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req searchAndFetchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"success": false, "error": gin.H{"code": "bad_request", "message": err.Error()}})
			return
		}
		if req.Mode == "" {
			req.Mode = defaultMode
		}
		if req.Limit == 0 {
			req.Limit = defaultLimit
		}
		if req.FetchMode == "" {
			req.FetchMode = defaultFetchMode
		}
		if req.Format == "" {
			req.Format = defaultFormat
		}
		results, err := d.SearchAndFetch(c.Request.Context(), req.Query, search.ModeFromString(req.Mode), req.Limit,
			fetch.ModeFromString(req.FetchMode), convert.FormatFromString(req.Format))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, results)
	}
}
