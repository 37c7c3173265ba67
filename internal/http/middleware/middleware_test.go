package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudapp.com/app/internal/http/flash"
	"crudapp.com/app/internal/shared/apperr"
	"crudapp.com/app/pkg/view"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine() *gin.Engine {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := gin.New()
	r.Use(RequestID(), Logger(l), ErrorHandler(l), Recovery(l))
	return r
}

func TestRequestIDEchoed(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
}

func TestErrorHandlerRendersPage(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		Fail(c, apperr.E(apperr.Upstream, assert.AnError))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Something went wrong. Please try again.")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestErrorHandlerJSON(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		Fail(c, apperr.NotFoundErr("Product not found"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Accept", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Product not found", body["error"])
	assert.NotEmpty(t, body["request_id"])
}

func TestRecoveryKeepsServing(t *testing.T) {
	r := newEngine()
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, "fine", w.Body.String())
}

func TestFlashShownOnce(t *testing.T) {
	codec := flash.NewCodec([]byte("secret"), "flash", false)
	r := gin.New()
	r.Use(FlashMiddleware(codec))
	r.GET("/set", func(c *gin.Context) {
		SetFlashCookie(c, codec, view.Flash{Kind: view.FlashSuccess, Message: "Product deleted"})
		c.Status(http.StatusNoContent)
	})
	r.GET("/read", func(c *gin.Context) {
		if f := GetFlash(c); f != nil {
			c.String(http.StatusOK, f.Message)
			return
		}
		c.String(http.StatusOK, "none")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "Product deleted", w.Body.String())

	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}
