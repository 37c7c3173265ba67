package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"crudapp.com/app/internal/http/middleware"
	"crudapp.com/app/internal/http/render"
	"crudapp.com/app/internal/http/validation"
	"crudapp.com/app/internal/modules/products"
	"crudapp.com/app/internal/shared/apperr"
	"crudapp.com/app/internal/storage"
	"crudapp.com/app/internal/viewstate"
	"crudapp.com/app/pkg/view"
	"crudapp.com/app/templates/pages"
)

type ProductService interface {
	List(ctx context.Context) ([]products.Product, error)
	Get(ctx context.Context, id int64) (products.Product, error)
	Create(ctx context.Context, in products.Input) (products.Product, error)
	Update(ctx context.Context, id int64, in products.Input) (products.Product, error)
	Delete(ctx context.Context, id int64) error
}

// ProductsHandler serves the product list, detail and form views.
type ProductsHandler struct {
	svc  ProductService
	list *listFlow[products.Product]
	opts Options
	res  resource
}

func NewProductsHandler(svc ProductService, views storage.Storage, opts Options) *ProductsHandler {
	res := resource{singular: "product", plural: "products"}
	return &ProductsHandler{
		svc:  svc,
		opts: opts,
		res:  res,
		list: &listFlow[products.Product]{
			res:    res,
			views:  views,
			fetch:  svc.List,
			remove: svc.Delete,
			opts:   opts,
		},
	}
}

// List renders GET /products.
func (h *ProductsHandler) List(c *gin.Context) {
	l, err := h.list.open(c)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	vm := view.ProductListPage{
		ViewID:  l.ID,
		Loading: l.Phase == viewstate.PhaseLoading,
		Error:   l.Error,
		Rows:    make([]view.ProductRow, 0, len(l.Items)),
	}
	for _, p := range l.Items {
		vm.Rows = append(vm.Rows, view.ProductRow{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    view.Price(p.Price),
			Stock:    view.StockLabel(p.InStock),
		})
	}
	render.Component(c, http.StatusOK, pages.ProductList(middleware.GetFlash(c), vm))
}

// Show renders GET /products/:id, or the fallback when it cannot be loaded.
func (h *ProductsHandler) Show(c *gin.Context) {
	id, err := parseID(c)
	var p products.Product
	if err == nil {
		p, err = h.svc.Get(c.Request.Context(), id)
	}
	if err != nil {
		logCause(c, h.opts.Logger, "detail_load_failed", err)
		render.Component(c, loadStatus(err), pages.NotFound(middleware.GetFlash(c), h.res.plural, view.NotFoundPage{
			Message:   h.res.msgLoadFailed(),
			BackURL:   h.res.listURL(),
			BackLabel: "Back to " + h.res.labels(),
		}))
		return
	}

	render.Component(c, http.StatusOK, pages.ProductDetail(middleware.GetFlash(c), view.ProductDetail{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       view.Price(p.Price),
		Stock:       view.StockBadge(p.InStock),
		Created:     view.Date(p.CreatedAt.Time),
		Description: p.Description,
		Tags:        p.Tags,
	}))
}

// New renders the empty create form; a new product starts in stock.
func (h *ProductsHandler) New(c *gin.Context) {
	form := viewstate.NewCreateForm(view.ProductForm{InStock: true})
	h.renderForm(c, http.StatusOK, form)
}

// Edit renders the edit form filled with the product's current values.
func (h *ProductsHandler) Edit(c *gin.Context) {
	id, err := parseID(c)
	form := viewstate.NewEditForm[view.ProductForm](id)
	var p products.Product
	if err == nil {
		p, err = h.svc.Get(c.Request.Context(), id)
	}
	if err != nil {
		logCause(c, h.opts.Logger, "form_load_failed", err)
		h.renderForm(c, loadStatus(err), form.LoadFailed(h.res.msgLoadFailed()))
		return
	}
	h.renderForm(c, http.StatusOK, form.Loaded(productToForm(p)))
}

// Create handles POST /products.
func (h *ProductsHandler) Create(c *gin.Context) {
	h.submit(c, viewstate.NewCreateForm(view.ProductForm{}))
}

// Update handles POST /products/:id.
func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderForm(c, http.StatusNotFound, viewstate.NewEditForm[view.ProductForm](0).LoadFailed(h.res.msgLoadFailed()))
		return
	}
	h.submit(c, viewstate.NewEditForm[view.ProductForm](id))
}

func (h *ProductsHandler) submit(c *gin.Context, form viewstate.Form[view.ProductForm]) {
	var in view.ProductForm
	if err := c.ShouldBind(&in); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, form.Invalid(in, "", validation.FromBindError(err, &in)))
		return
	}
	form = form.Edited(in)

	ctx := c.Request.Context()
	var (
		saved products.Product
		err   error
	)
	if form.IsEdit() {
		saved, err = h.svc.Update(ctx, form.ID(), formToProductInput(in))
	} else {
		saved, err = h.svc.Create(ctx, formToProductInput(in))
	}
	if err != nil {
		msg := h.res.msgCreateFailed()
		if form.IsEdit() {
			msg = h.res.msgUpdateFailed()
		}
		logCause(c, h.opts.Logger, "form_submit_failed", err)
		h.renderForm(c, apperr.HTTPStatus(err), form.Failed(msg))
		return
	}

	next := form.ID()
	if !form.IsEdit() {
		next = saved.ID
	}
	h.renderForm(c, http.StatusOK, form.Saved(h.res.itemURL(next)))
}

func (h *ProductsHandler) renderForm(c *gin.Context, status int, form viewstate.Form[view.ProductForm]) {
	action, cancel := h.res.listURL(), h.res.listURL()
	if form.IsEdit() {
		action, cancel = h.res.itemURL(form.ID()), h.res.itemURL(form.ID())
	}
	refresh := formRefresh(c, form, h.opts.RedirectDelay)
	render.Component(c, status, pages.ProductForm(middleware.GetFlash(c), view.ProductFormPage{
		FormStatus: formStatus(form, action, cancel),
		Fields:     form.Fields(),
	}, refresh))
}

// ConfirmDelete renders GET /products/:id/delete.
func (h *ProductsHandler) ConfirmDelete(c *gin.Context) {
	confirmDelete(c, h.res)
}

// Delete handles POST /products/:id/delete.
func (h *ProductsHandler) Delete(c *gin.Context) {
	deleteEntity(c, h.res, h.list, h.opts)
}

func productToForm(p products.Product) view.ProductForm {
	return view.ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Category:    p.Category,
		Tags:        products.JoinTags(p.Tags),
		InStock:     p.InStock,
	}
}

// formToProductInput expects a validated form; Price already parses.
func formToProductInput(f view.ProductForm) products.Input {
	price, _ := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	return products.Input{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		Category:    f.Category,
		Tags:        products.SplitTags(f.Tags),
		InStock:     f.InStock,
	}
}
