package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/moneydesk/ledger_backend/utils"
)

func parsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Every endpoint answers with the same envelope so clients only ever
// branch on "success".
func respondOk(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func respondBindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "validation failed",
			"errors":  utils.ProcessValidationErrors(err),
		})
		return
	}
	respondError(c, http.StatusBadRequest, "invalid request body")
}

// respondModelError maps model-layer failures onto status codes:
// missing rows are 404, everything else is treated as a client-side
// validation problem. The model layer does not return opaque internal
// errors for bad input.
func respondModelError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrorRecordNotFound) {
		respondError(c, http.StatusNotFound, "record not found")
		return
	}
	respondError(c, http.StatusBadRequest, err.Error())
}

func pathId(c *gin.Context) (int, bool) {
	id, ok := parsePositiveInt(c.Param("id"))
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
