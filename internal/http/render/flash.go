package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crudapp.com/app/internal/http/flash"
	"crudapp.com/app/internal/http/middleware"
	"crudapp.com/app/pkg/view"
)

// RedirectWithFlash answers a form post with 303 so the browser follows up
// with a GET, carrying msg to the next page.
func RedirectWithFlash(c *gin.Context, codec *flash.Codec, location string, kind view.FlashKind, msg string) {
	middleware.SetFlashCookie(c, codec, view.Flash{Kind: kind, Message: msg})
	c.Redirect(http.StatusSeeOther, location)
}
