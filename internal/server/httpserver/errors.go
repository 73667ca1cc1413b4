package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// writeError maps service errors onto status codes. Internal details never
// reach the client.
func (s *Server) writeError(c *gin.Context, err error) {
	var verr *common.ValidationError
	var berr validator.ValidationErrors

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.As(err, &berr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingFields(berr)})
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrNoDestinations), errors.Is(err, common.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindJSON decodes the body and reports malformed input as 400.
func (s *Server) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var berr validator.ValidationErrors
		if errors.As(err, &berr) {
			s.writeError(c, berr)
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func bindingFields(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		name := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			out[name] = "is required"
		default:
			out[name] = "failed " + fe.Tag() + " check"
		}
	}
	return out
}
