package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPError is an error carrying an HTTP status code.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status associated with the error
func (e *HTTPError) StatusCode() int { return e.Status }

// statusCoder is implemented by errors that declare their own HTTP status
type statusCoder interface {
	StatusCode() int
}

// ErrorNormalizer returns a gin middleware that converts errors attached to
// the context into a uniform JSON envelope. It is the terminal fallback:
// handlers that already wrote a response are left alone. Status comes from
// the error when it declares one, otherwise 500; the body is always
// {"message": <message>}.
func ErrorNormalizer(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		status := http.StatusInternalServerError
		var sc statusCoder
		if errors.As(err, &sc) {
			status = sc.StatusCode()
		}

		message := err.Error()
		if message == "" {
			message = "Internal Server Error"
		}

		logger.Error("Unhandled request error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)

		c.JSON(status, gin.H{"message": message})
	}
}
