package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error payloads are a flat {"error": "<message>"} object; clients of the
// original service depend on that exact shape.

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	if details == nil {
		RespondError(ctx, http.StatusBadRequest, message)
		return
	}

	ctx.JSON(http.StatusBadRequest, gin.H{
		"error":   message,
		"details": details,
	})
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message)
}

func RespondUnprocessable(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnprocessableEntity, message)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message)
}
