package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "clinicsetup/internal/errors"
)

// statusFor maps an application error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case apperrors.CodeInvalidFileType,
		apperrors.CodeMissingSheet,
		apperrors.CodeHeaderNotFound,
		apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound, apperrors.CodeUnknownDomain:
		return http.StatusNotFound
	case apperrors.CodeImportInFlight:
		return http.StatusConflict
	case apperrors.CodeExtractionRequestFailed, apperrors.CodeExtractionResponseInvalid:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": message, "code": code} with the mapped status.
func (s *Server) respondError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("[Server] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
