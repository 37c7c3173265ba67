package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crudapp.com/app/internal/http/middleware"
	"crudapp.com/app/internal/http/render"
	"crudapp.com/app/internal/viewstate"
	"crudapp.com/app/pkg/view"
	"crudapp.com/app/templates/pages"
)

const fromDetail = "detail"

// deleteTarget is where a delete confirmation came from: a list instance
// (?view=<id>) or the detail page (?from=detail).
type deleteTarget struct {
	id     int64
	viewID string
	from   string
}

func (t deleteTarget) back(res resource) string {
	if t.from == fromDetail {
		return res.itemURL(t.id)
	}
	return res.viewURL(t.viewID)
}

func readTarget(c *gin.Context, id int64) deleteTarget {
	t := deleteTarget{id: id, viewID: c.Query("view"), from: c.Query("from")}
	if v := c.PostForm("view"); v != "" {
		t.viewID = v
	}
	if v := c.PostForm("from"); v != "" {
		t.from = v
	}
	return t
}

// confirmDelete shows the blocking question. Cancel goes back to where the
// user came from without any request to the API.
func confirmDelete(c *gin.Context, res resource) {
	id, err := parseID(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, res.listURL())
		return
	}
	t := readTarget(c, id)
	render.Component(c, http.StatusOK, pages.ConfirmDelete(middleware.GetFlash(c), res.plural, view.ConfirmDeletePage{
		Question:  res.msgConfirmDelete(),
		ActionURL: res.deleteURL(id),
		CancelURL: t.back(res),
		ViewID:    t.viewID,
		From:      t.from,
	}))
}

// deleteEntity runs an accepted confirmation. Without confirm=1 nothing is
// sent to the API.
func deleteEntity[T viewstate.Entity](c *gin.Context, res resource, list *listFlow[T], opts Options) {
	id, err := parseID(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, res.listURL())
		return
	}
	t := readTarget(c, id)
	if c.PostForm("confirm") != "1" {
		c.Redirect(http.StatusSeeOther, t.back(res))
		return
	}

	if t.from != fromDetail {
		list.deleteFromList(c, id, t.viewID)
		c.Redirect(http.StatusSeeOther, res.viewURL(t.viewID))
		return
	}

	if err := list.remove(c.Request.Context(), id); err != nil {
		logCause(c, opts.Logger, "detail_delete_failed", err)
		render.RedirectWithFlash(c, opts.Flash, res.itemURL(id), view.FlashError, res.msgDeleteFailed())
		return
	}
	render.RedirectWithFlash(c, opts.Flash, res.listURL(), view.FlashSuccess, res.msgDeleted())
}
