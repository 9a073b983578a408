package handler

import (
	"net/http"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type validatable interface {
	Validate() dto.ValidationResult
}

// bindAndValidate binds the JSON body and runs the request's Validate method.
// Returns false and writes the error response if either step fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.AbortWithError(c, apierror.BadRequest("invalid JSON body"))
		return false
	}
	if res := req.Validate(); !res.Valid {
		middleware.AbortWithError(c, apierror.NewValidation(res.Errors))
		return false
	}
	return true
}

// bindQuery binds query-string filters.
func bindQuery(c *gin.Context, filter any) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		middleware.AbortWithError(c, apierror.BadRequest("invalid query parameters"))
		return false
	}
	return true
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, apierror.BadRequest("invalid id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, dto.Envelope{
		Data:      data,
		Message:   message,
		Success:   true,
		Timestamp: time.Now(),
	})
}

func ok(c *gin.Context, data any) { respond(c, http.StatusOK, data, "ok") }

// fail writes typed errors directly; anything else goes to the ErrorHandler
// middleware, which logs it and answers a generic 500.
func fail(c *gin.Context, err error) {
	if apiErr, isAPI := apierror.From(err); isAPI && apiErr.Code != apierror.CodeInternal {
		middleware.AbortWithError(c, apiErr)
		return
	}
	_ = c.Error(err)
	c.Abort()
}
