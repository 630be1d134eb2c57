package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tripacker/tripacker-backend/internal/services"
)

// respondServiceError translates service sentinel errors into HTTP statuses.
// Generation failures deliberately answer with a generic message; upstream
// detail lives in the logs only.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrAccessDenied.Error()})
	case errors.Is(err, services.ErrTripNotFound),
		errors.Is(err, services.ErrListNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrSpecialListNotFound),
		errors.Is(err, services.ErrSpecialListsNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyGenerated),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDuplicateItem):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGenerationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": services.ErrGenerationFailed.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		// Wrapped repo/driver failures carry internals; those stay in the
		// service logs.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func paginationParams(c *gin.Context) (limit, offset int) {
	limit = intQuery(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset = intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func intQuery(c *gin.Context, key string, defaultVal int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return v
}
