package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"videotube/pkg/apierr"
)

// Envelope is the uniform response shape. Data is omitted on failure.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

func OK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// Fail is the central error responder. Server-class failures are logged with
// their cause; the client only ever sees the classified status and message.
func Fail(c *gin.Context, log *logrus.Logger, err error) {
	status := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(err).Error("request failed")
	}
	c.JSON(status, Envelope{Success: false, Message: apierr.MessageOf(err)})
}

// HandlerFunc is a gin handler that reports failure by returning an error
// instead of writing its own error response.
type HandlerFunc func(*gin.Context) error

// Wrap adapts a HandlerFunc to gin, forwarding any returned error to Fail.
func Wrap(log *logrus.Logger, fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			Fail(c, log, err)
		}
	}
}
