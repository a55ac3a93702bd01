package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *CompressionHandler) GetJob(c *gin.Context) {
	report, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
