package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ttakano/climblog/internal/common"
)

// writeError maps the shared error taxonomy onto HTTP statuses. Validation
// failures carry the full field→messages map so the caller sees every
// problem at once.
func (s *Server) writeError(c *gin.Context, err error) {

	var ve *common.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, common.ErrorUnauthenticated):
		c.Header("WWW-Authenticate", `Basic realm="climblog"`)
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "authentication required"})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "you do not have permission to perform this action"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	default:
		s.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
	}
}

// bindError converts a JSON binding failure into the validation shape.
func bindError() *common.ValidationError {
	ve := common.NewValidationError()
	ve.Add("non_field_errors", "malformed request body")
	return ve
}
