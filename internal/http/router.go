package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"crudapp.com/app/internal/http/flash"
	"crudapp.com/app/internal/http/handlers"
	"crudapp.com/app/internal/http/middleware"
	"crudapp.com/app/internal/http/validation"
	"crudapp.com/app/internal/http/viewcookie"
	"crudapp.com/app/internal/storage"
	"crudapp.com/app/templates/pages"
)

type Deps struct {
	Logger        *slog.Logger
	Products      handlers.ProductService
	Users         handlers.UserService
	Views         storage.Storage
	Flash         *flash.Codec
	ViewCookies   *viewcookie.Codec
	RedirectDelay time.Duration
}

func NewRouter(d Deps) *gin.Engine {
	validation.Register()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.ErrorHandler(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.FlashMiddleware(d.Flash),
	)

	opts := handlers.Options{
		Logger:        d.Logger,
		Flash:         d.Flash,
		ViewCookies:   d.ViewCookies,
		RedirectDelay: d.RedirectDelay,
	}

	r.GET("/health", handlers.Health)
	r.StaticFS("/static", pages.Static())
	r.GET("/", handlers.Home)

	ph := handlers.NewProductsHandler(d.Products, d.Views, opts)
	p := r.Group("/products")
	{
		p.GET("", ph.List)
		p.POST("", ph.Create)
		p.GET("/new", ph.New)
		p.GET("/:id", ph.Show)
		p.POST("/:id", ph.Update)
		p.GET("/:id/edit", ph.Edit)
		p.GET("/:id/delete", ph.ConfirmDelete)
		p.POST("/:id/delete", ph.Delete)
	}

	uh := handlers.NewUsersHandler(d.Users, d.Views, opts)
	u := r.Group("/users")
	{
		u.GET("", uh.List)
		u.POST("", uh.Create)
		u.GET("/new", uh.New)
		u.GET("/:id", uh.Show)
		u.POST("/:id", uh.Update)
		u.GET("/:id/edit", uh.Edit)
		u.GET("/:id/delete", uh.ConfirmDelete)
		u.POST("/:id/delete", uh.Delete)
	}

	r.NoRoute(handlers.CatchAll)
	return r
}
