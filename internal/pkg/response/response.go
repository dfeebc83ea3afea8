package response

import (
	"errors"
	"net/http"
	"strings"

	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// FromError is the single place where service errors become HTTP responses.
// Unknown errors are attached to the gin context for ErrorLogger and reported
// as a generic 500.
func FromError(c *gin.Context, err error) {
	var limitErr *lifecycle.LimitError
	if errors.As(err, &limitErr) {
		ErrorWithDetails(c, http.StatusForbidden, "LIMIT_REACHED", limitErr.Err.Error(), gin.H{
			"current":    limitErr.Current,
			"limit":      limitErr.Limit,
			"plan":       limitErr.PlanName,
			"upgrade_to": limitErr.UpgradeTo,
		})
		return
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	Error(c, StatusFor(de.Kind), Code(de.Kind), de.Error())
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden, domain.KindAccessDenied, domain.KindLimitReached:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidTransition, domain.KindConflict:
		return http.StatusConflict
	case domain.KindInactive, domain.KindExpired, domain.KindNotApplicableToUser,
		domain.KindNotApplicableToProperty, domain.KindInvalidRateConfiguration:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Code is the machine-readable code for kind, e.g. INVALID_TRANSITION.
func Code(kind domain.ErrorKind) string {
	if kind == domain.KindInternal {
		return "INTERNAL_ERROR"
	}
	return strings.ToUpper(string(kind))
}
