package transport

import (
	"errors"
	"net/http"

	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/ds124wfegd/sizefit/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CompressionHandler struct {
	service service.CompressionService
}

func NewCompressionHandler(service service.CompressionService) *CompressionHandler {
	return &CompressionHandler{service: service}
}

// errorResponse maps service errors onto the {"error": msg} body.
func errorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case entity.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrJobNotFound):
		status = http.StatusNotFound
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
