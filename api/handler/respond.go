package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/tarzi/tarzierr"
)

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// fail maps a tarzierr.Code to an HTTP status and writes the envelope.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := string(tarzierr.NetworkError)
	if te, ok := err.(*tarzierr.Error); ok {
		code = string(te.Code)
		switch te.Code {
		case tarzierr.UrlError, tarzierr.ConfigError, tarzierr.EngineNotSupported:
			status = http.StatusBadRequest
		case tarzierr.HttpStatus:
			status = http.StatusBadGateway
		case tarzierr.Timeout:
			status = http.StatusGatewayTimeout
		case tarzierr.DriverNotFound, tarzierr.DriverStartFailed, tarzierr.DriverPortBusy, tarzierr.BrowserError:
			status = http.StatusServiceUnavailable
		case tarzierr.CaptchaDetected:
			status = http.StatusConflict
		case tarzierr.ParseError:
			status = http.StatusUnprocessableEntity
		}
	}
	c.JSON(status, gin.H{"success": false, "error": gin.H{"code": code, "message": err.Error()}})
}
