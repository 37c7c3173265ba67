package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crudapp.com/app/internal/http/middleware"
	"crudapp.com/app/internal/http/render"
	"crudapp.com/app/internal/shared/apperr"
	"crudapp.com/app/templates/pages"
)

func Home(c *gin.Context) {
	render.Component(c, http.StatusOK, pages.Home(middleware.GetFlash(c)))
}

// CatchAll sends unknown pages home. Other methods get a plain 404.
func CatchAll(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		c.Redirect(http.StatusFound, "/")
		return
	}
	middleware.Fail(c, apperr.NotFoundErr("Page not found"))
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
