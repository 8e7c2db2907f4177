package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"finance_tracker/internal/logger"
	"finance_tracker/internal/middleware"
	"finance_tracker/internal/model"
	"finance_tracker/internal/service"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps service errors to HTTP statuses. Unexpected errors are
// logged and hidden behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrDataUnavailable):
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg(fallback)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": model.ErrDataUnavailable.Error()})
	default:
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func getAuthUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user ID not found in context"})
	}
	return userID, ok
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return uuid.Nil, false
	}
	return id, true
}

// parseRange reads preset, start_date and end_date from the query string.
func parseRange(c *gin.Context) (model.RangeSpec, error) {
	spec := model.RangeSpec{Preset: c.Query("preset")}
	var err error
	if spec.Start, err = parseDateQuery(c, "start_date"); err != nil {
		return spec, err
	}
	if spec.End, err = parseDateQuery(c, "end_date"); err != nil {
		return spec, err
	}
	return spec, nil
}

func parseDateQuery(c *gin.Context, key string) (*civil.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		return nil, invalidParam("invalid date format for '%s', use YYYY-MM-DD", key)
	}
	return &d, nil
}

func parseKindQuery(c *gin.Context, key string) (*model.Kind, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	kind, err := model.ParseKind(raw)
	if err != nil {
		return nil, err
	}
	return &kind, nil
}

// parseTagsQuery accepts both repeated tags parameters and comma separated lists.
func parseTagsQuery(c *gin.Context) []string {
	var tags []string
	for _, raw := range c.QueryArray("tags") {
		tags = append(tags, strings.Split(raw, ",")...)
	}
	return tags
}

func parseIntQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam("'%s' must be an integer", key)
	}
	return n, nil
}

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
