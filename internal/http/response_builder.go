package http

import (
	"errors"
	"net/http"

	"ledgerpro/internal/core"
	"ledgerpro/internal/log"
	"ledgerpro/internal/services"

	"github.com/gin-gonic/gin"
)

// refusalStatus maps the reason of a refused write onto a status code.
func refusalStatus(reason error) int {
	switch {
	case services.IsValidation(reason):
		return http.StatusUnprocessableEntity
	case errors.Is(reason, services.ErrDuplicate), errors.Is(reason, core.ErrLastLedger):
		return http.StatusConflict
	case errors.Is(reason, core.ErrLedgerNotFound), errors.Is(reason, core.ErrRecordNotFound):
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// writeOutcome answers a write with the localized outcome message.
func writeOutcome(c *gin.Context, success int, out services.Outcome) {
	if out.OK {
		c.JSON(success, out)
		return
	}
	c.JSON(refusalStatus(out.Reason), out)
}

// writeError answers a failed call. Internal errors are logged and hidden
// from the client.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, errBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrInvalidDate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrLedgerNotFound), errors.Is(err, core.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		ctx := c.Request.Context()
		log.FromContext(ctx).ErrorContext(ctx, "Request failed", log.FieldError, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
	}
}
