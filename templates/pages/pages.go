// Package pages renders the server-side HTML views. Each page is a
// templ.Component executing the shared layout around its own content.
package pages

import (
	"context"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"

	"crudapp.com/app/pkg/view"
	"crudapp.com/app/templates/shared"
)

//go:embed html/*.html
var htmlFS embed.FS

//go:embed static
var staticFS embed.FS

// Static serves app.css and friends under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Layout is the data the outer frame needs. Refresh, when set, is the value
// of a meta refresh ("1;url=/products/42").
type Layout struct {
	Title   string
	Section string
	Flash   *view.Flash
	Refresh string
	Body    any
}

var templates = map[string]*template.Template{}

func init() {
	for _, name := range []string{
		"home", "product_list", "product_detail", "product_form",
		"user_list", "user_detail", "user_form",
		"not_found", "confirm_delete", "error",
	} {
		templates[name] = template.Must(template.New(name).Funcs(shared.Funcs()).ParseFS(htmlFS,
			"html/layout.html", "html/form_status.html", "html/"+name+".html"))
	}
}

func page(name string, l Layout) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates[name].ExecuteTemplate(w, "layout", l)
	})
}

func Home(flash *view.Flash) templ.Component {
	return page("home", Layout{Flash: flash})
}

func ProductList(flash *view.Flash, vm view.ProductListPage) templ.Component {
	return page("product_list", Layout{Title: "Products", Section: "products", Flash: flash, Body: vm})
}

func ProductDetail(flash *view.Flash, vm view.ProductDetail) templ.Component {
	return page("product_detail", Layout{Title: vm.Name, Section: "products", Flash: flash, Body: vm})
}

func ProductForm(flash *view.Flash, vm view.ProductFormPage, refresh string) templ.Component {
	title := "Create Product"
	if vm.Edit {
		title = "Edit Product"
	}
	return page("product_form", Layout{Title: title, Section: "products", Flash: flash, Refresh: refresh, Body: vm})
}

func UserList(flash *view.Flash, vm view.UserListPage) templ.Component {
	return page("user_list", Layout{Title: "Users", Section: "users", Flash: flash, Body: vm})
}

func UserDetail(flash *view.Flash, vm view.UserDetail) templ.Component {
	return page("user_detail", Layout{Title: vm.Name, Section: "users", Flash: flash, Body: vm})
}

func UserForm(flash *view.Flash, vm view.UserFormPage, refresh string) templ.Component {
	title := "Create User"
	if vm.Edit {
		title = "Edit User"
	}
	return page("user_form", Layout{Title: title, Section: "users", Flash: flash, Refresh: refresh, Body: vm})
}

func NotFound(flash *view.Flash, section string, vm view.NotFoundPage) templ.Component {
	return page("not_found", Layout{Title: "Not found", Section: section, Flash: flash, Body: vm})
}

func ConfirmDelete(flash *view.Flash, section string, vm view.ConfirmDeletePage) templ.Component {
	return page("confirm_delete", Layout{Title: "Confirm delete", Section: section, Flash: flash, Body: vm})
}

type errorBody struct {
	Status     int
	StatusText string
	Message    string
	RequestID  string
}

func Error(status int, msg, requestID string, flash *view.Flash) templ.Component {
	return page("error", Layout{
		Title: http.StatusText(status),
		Flash: flash,
		Body:  errorBody{Status: status, StatusText: http.StatusText(status), Message: msg, RequestID: requestID},
	})
}
