package middleware

import (
	"net/http"

	"gotrip-checkout/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

const RequestIDHeader = "X-Request-ID"

const msgInternal = "Internal server error"

// ErrorHandler writes the last public error recorded by httperr.AbortWithError when the handler
// chain finished without a body. Anything else becomes a 500 that names the request id, so a
// customer stuck on a checkout can quote it to support.
func (l *Logger) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if !err.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := err.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}

		attrs := l.requestAttrs(c)
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		l.logger.Error("request finished without a response", attrs...)
		abortInternal(c)
	}
}

// Recovery turns a panic into a 500. The checkout session is named in the log because a panic
// mid-mutation leaves that session as it was last saved.
func (l *Logger) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.logger.Error("recovered from panic", append(l.requestAttrs(c), "error", rec)...)
				abortInternal(c)
			}
		}()
		c.Next()
	}
}

func (l *Logger) requestAttrs(c *gin.Context) []any {
	attrs := []any{"path", c.Request.URL.Path, "request_id", GetRequestID(c)}
	if sessionID := checkoutSessionOf(c); sessionID != "" {
		attrs = append(attrs, "session_id", sessionID)
	}
	return attrs
}

func abortInternal(c *gin.Context) {
	if id := GetRequestID(c); id != "" {
		c.Header(RequestIDHeader, id)
	}
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Message = msgInternal
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}
