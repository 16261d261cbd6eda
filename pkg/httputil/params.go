package httputil

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/pkg/errors"
)

// UUIDParam parses a path parameter as a UUID, responding with a
// validation error on failure.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondWithError(c, errors.Validation("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
