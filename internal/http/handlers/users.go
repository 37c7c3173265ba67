package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"crudapp.com/app/internal/http/middleware"
	"crudapp.com/app/internal/http/render"
	"crudapp.com/app/internal/http/validation"
	"crudapp.com/app/internal/modules/users"
	"crudapp.com/app/internal/shared/apperr"
	"crudapp.com/app/internal/storage"
	"crudapp.com/app/internal/viewstate"
	"crudapp.com/app/pkg/view"
	"crudapp.com/app/templates/pages"
)

type UserService interface {
	List(ctx context.Context) ([]users.User, error)
	Get(ctx context.Context, id int64) (users.User, error)
	Create(ctx context.Context, in users.Input) (users.User, error)
	Update(ctx context.Context, id int64, in users.Input) (users.User, error)
	Delete(ctx context.Context, id int64) error
}

type UsersHandler struct {
	svc  UserService
	list *listFlow[users.User]
	opts Options
	res  resource
}

func NewUsersHandler(svc UserService, views storage.Storage, opts Options) *UsersHandler {
	res := resource{singular: "user", plural: "users"}
	return &UsersHandler{
		svc:  svc,
		opts: opts,
		res:  res,
		list: &listFlow[users.User]{
			res:    res,
			views:  views,
			fetch:  svc.List,
			remove: svc.Delete,
			opts:   opts,
		},
	}
}

func (h *UsersHandler) List(c *gin.Context) {
	l, err := h.list.open(c)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	vm := view.UserListPage{
		ViewID:  l.ID,
		Loading: l.Phase == viewstate.PhaseLoading,
		Error:   l.Error,
		Rows:    make([]view.UserRow, 0, len(l.Items)),
	}
	for _, u := range l.Items {
		vm.Rows = append(vm.Rows, view.UserRow{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Joined: view.Date(u.CreatedAt.Time),
		})
	}
	render.Component(c, http.StatusOK, pages.UserList(middleware.GetFlash(c), vm))
}

func (h *UsersHandler) Show(c *gin.Context) {
	id, err := parseID(c)
	var u users.User
	if err == nil {
		u, err = h.svc.Get(c.Request.Context(), id)
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

	render.Component(c, http.StatusOK, pages.UserDetail(middleware.GetFlash(c), view.UserDetail{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		MemberSince: view.Date(u.CreatedAt.Time),
	}))
}

func (h *UsersHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, viewstate.NewCreateForm(view.UserForm{}))
}

// Edit never pre-fills the password.
func (h *UsersHandler) Edit(c *gin.Context) {
	id, err := parseID(c)
	form := viewstate.NewEditForm[view.UserForm](id)
	var u users.User
	if err == nil {
		u, err = h.svc.Get(c.Request.Context(), id)
	}
	if err != nil {
		logCause(c, h.opts.Logger, "form_load_failed", err)
		h.renderForm(c, loadStatus(err), form.LoadFailed(h.res.msgLoadFailed()))
		return
	}
	h.renderForm(c, http.StatusOK, form.Loaded(view.UserForm{Name: u.Name, Email: u.Email}))
}

func (h *UsersHandler) Create(c *gin.Context) {
	h.submit(c, viewstate.NewCreateForm(view.UserForm{}))
}

func (h *UsersHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderForm(c, http.StatusNotFound, viewstate.NewEditForm[view.UserForm](0).LoadFailed(h.res.msgLoadFailed()))
		return
	}
	h.submit(c, viewstate.NewEditForm[view.UserForm](id))
}

func (h *UsersHandler) submit(c *gin.Context, form viewstate.Form[view.UserForm]) {
	var in view.UserForm
	err := c.ShouldBind(&in)
	var fieldErrs validation.FieldErrors
	if err != nil {
		fieldErrs = validation.FromBindError(err, &in)
	}
	// the password is only mandatory when creating
	if !form.IsEdit() && in.Password == "" {
		if fieldErrs == nil {
			fieldErrs = validation.FieldErrors{}
		}
		fieldErrs["password"] = validation.MsgRequired
	}
	if len(fieldErrs) > 0 {
		in.Password = ""
		h.renderForm(c, http.StatusUnprocessableEntity, form.Invalid(in, "", fieldErrs))
		return
	}
	form = form.Edited(in)

	ctx := c.Request.Context()
	body := users.Input{Name: in.Name, Email: in.Email, Password: in.Password}
	var saved users.User
	if form.IsEdit() {
		saved, err = h.svc.Update(ctx, form.ID(), body)
	} else {
		saved, err = h.svc.Create(ctx, body)
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

func (h *UsersHandler) renderForm(c *gin.Context, status int, form viewstate.Form[view.UserForm]) {
	action, cancel := h.res.listURL(), h.res.listURL()
	if form.IsEdit() {
		action, cancel = h.res.itemURL(form.ID()), h.res.itemURL(form.ID())
	}
	refresh := formRefresh(c, form, h.opts.RedirectDelay)
	render.Component(c, status, pages.UserForm(middleware.GetFlash(c), view.UserFormPage{
		FormStatus: formStatus(form, action, cancel),
		Fields:     form.Fields(),
	}, refresh))
}

func (h *UsersHandler) ConfirmDelete(c *gin.Context) {
	confirmDelete(c, h.res)
}

func (h *UsersHandler) Delete(c *gin.Context) {
	deleteEntity(c, h.res, h.list, h.opts)
}
