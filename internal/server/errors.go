// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/cxr-trainer/pkg/types"
)

// mapDomainError translates sentinel errors into HTTP statuses in one
// place so handlers stay thin.
func mapDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrSessionNotFound),
		errors.Is(err, types.ErrCaseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, types.ErrCaseExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, types.ErrInvalidCase),
		errors.Is(err, types.ErrInvalidRegion),
		errors.Is(err, types.ErrInvalidILOCode),
		errors.Is(err, types.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
