package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medreps/internal/middleware"
	"medreps/internal/repository"
	"medreps/internal/service"
)

func (h HandlerSet) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrHospitalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "hospital_not_found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrUnknownRepresentative):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_representative"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		h.log.Error().
			Err(err).
			Str("path", c.FullPath()).
			Str("request_id", c.GetString(middleware.RequestIDHeader)).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
