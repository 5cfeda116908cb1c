package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/model-sync-api/internal/core/domain"
	"go.uber.org/zap"
)

// ErrorHandler converts errors attached by handlers into responses.
// Problems are serialized at the root per RFC 9457; application Errors
// keep their status code; anything else becomes a 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var problem *domain.Problem
		if errors.As(err, &problem) {
			if problem.Log != nil {
				logger.Error("request failed", zap.Error(problem.Log))
			}
			c.JSON(problem.Status, problem)
			c.Abort()
			return
		}

		var appErr *domain.Error
		if errors.As(err, &appErr) {
			if appErr.Log != nil {
				logger.Error("request failed", zap.Error(appErr.Log))
			}
			c.JSON(appErr.Code, gin.H{"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			}})
			c.Abort()
			return
		}

		logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code":    http.StatusInternalServerError,
			"message": "An unexpected error occurred.",
		}})
		c.Abort()
	}
}
