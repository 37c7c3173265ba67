package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crudapp.com/app/internal/shared/apperr"
	"crudapp.com/app/templates/pages"
)

func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return c.Request.URL.Path == "/health"
}

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last c.Error for handlers that did not write a
// response themselves.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		publicMsg := apperr.PublicMessage(err)
		rid := GetRequestID(c)

		l.LogAttrs(c.Request.Context(), slog.LevelError, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.String("kind", string(apperr.KindOf(err))),
			slog.Any("err", err),
		)

		if WantsJSON(c) {
			c.AbortWithStatusJSON(status, gin.H{
				"error":      publicMsg,
				"request_id": rid,
			})
			return
		}

		var buf bytes.Buffer
		if rerr := pages.Error(status, publicMsg, rid, GetFlash(c)).Render(c.Request.Context(), &buf); rerr != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Abort()
		c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	}
}
