package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
)

// parsePage reads limit/offset query params. An absent limit uses the
// default page size; limit=0 asks for an unbounded read.
func parsePage(c *gin.Context) (pagination.Page, error) {
	page := pagination.Default()

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return page, ErrInvalidRequest
		}
		if limit == 0 {
			page = pagination.Unbounded()
		} else {
			page = pagination.WithLimit(limit, 0)
		}
	}

	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return page, ErrInvalidRequest
		}
		page.Offset = offset
	}

	if err := page.Validate(); err != nil {
		return page, err
	}
	return page, nil
}

func wantsCSV(c *gin.Context) bool {
	raw := strings.TrimSpace(c.Query("csv"))
	if raw == "" {
		return false
	}
	parsed, err := strconv.ParseBool(raw)
	return err == nil && parsed
}
