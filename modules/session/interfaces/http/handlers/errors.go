package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachtranscribe/engine/seedwork/domain"
)

// codeToStatus is the single translation point from a stable domain
// error code to an HTTP status (spec.md §9 "a single translation layer
// at the transport boundary"). Every handler in this package funnels
// its errors through writeError rather than inspecting domain.Error
// itself.
var codeToStatus = map[string]int{
	domain.CodeNotFound:              http.StatusNotFound,
	domain.CodeStateConflict:         http.StatusConflict,
	domain.CodeFileTooLarge:          http.StatusRequestEntityTooLarge,
	domain.CodeAudioMissing:          http.StatusConflict,
	domain.CodeLangNotSupported:      http.StatusUnprocessableEntity,
	domain.CodeQuotaExceeded:         http.StatusPaymentRequired,
	domain.CodeInvalidFormat:         http.StatusBadRequest,
	domain.CodeTranscriptUnavailable: http.StatusConflict,
	domain.CodeWorkerLost:            http.StatusConflict,
	domain.CodeUpstreamFailed:        http.StatusBadGateway,
}

// writeError renders err as a JSON body carrying its stable code, at
// the status codeToStatus maps it to. Errors without a recognized
// domain code fall back to 500.
func writeError(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status, ok := codeToStatus[code]
	if !ok {
		status = http.StatusInternalServerError
		code = "INTERNAL"
	}
	c.JSON(status, gin.H{"error": code, "message": err.Error()})
}
