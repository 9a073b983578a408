package middleware

import (
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"

	"github.com/gin-gonic/gin"
)

// AbortWithError stops the chain and writes err in the error envelope.
func AbortWithError(c *gin.Context, err *apierror.Error) {
	c.AbortWithStatusJSON(err.Status(), dto.ErrorEnvelope{
		Success:   false,
		Error:     err,
		Timestamp: time.Now(),
	})
}
