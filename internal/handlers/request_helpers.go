package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
)

const dateLayout = "2006-01-02"

// idParam reads a positive numeric path parameter, writing a 400 when it is
// missing or malformed.
func idParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		httperr.BadRequest(c, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return uint(n), true
}

// optionalDate parses a YYYY-MM-DD calendar date. Use cases read only the
// year, month and day, so the location is irrelevant.
func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
