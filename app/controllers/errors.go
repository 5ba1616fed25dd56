package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/centros-finder/app/responses"
	"github.com/centros-finder/app/services"
	"github.com/centros-finder/helpers/utils"
	"github.com/centros-finder/internal/normalizer"
	"github.com/centros-finder/internal/paginate"
	"github.com/gin-gonic/gin"
)

// writeError sends an ErrorResponse carrying the request ID.
func writeError(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, responses.ErrorResponse{
		Error:     code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: c.GetString(utils.RequestIDKey),
	})
}

// statusFor maps service errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, normalizer.ErrInvalidInput), errors.Is(err, paginate.ErrInvalidPage):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, services.ErrRankingUnavailable), errors.Is(err, services.ErrSearchUnavailable):
		return http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"
	case errors.Is(err, services.ErrNoCenters):
		return http.StatusUnprocessableEntity, "NO_CENTERS"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
