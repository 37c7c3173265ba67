package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crudapp.com/app/internal/http/middleware"
	"crudapp.com/app/internal/storage"
	"crudapp.com/app/internal/viewstate"
)

// listFlow runs the list-and-delete flow of one resource. A list view
// instance lives in the view store under a fresh uuid per activation; the
// page carries it as ?view=<id> and a signed cookie remembers the browser's
// latest instance so the next activation can dispose it.
type listFlow[T viewstate.Entity] struct {
	res    resource
	views  storage.Storage
	fetch  func(context.Context) ([]T, error)
	remove func(context.Context, int64) error
	opts   Options
}

// open returns the instance a list page renders: the live one named by
// ?view, or a freshly activated one.
func (f *listFlow[T]) open(c *gin.Context) (*viewstate.List[T], error) {
	if id := c.Query("view"); id != "" {
		l, err := f.resume(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(middleware.CtxKeyView, l.ID)
			return l, nil
		case !errors.Is(err, storage.ErrGone):
			return nil, err
		}
	}
	return f.activate(c)
}

func (f *listFlow[T]) resume(ctx context.Context, id string) (*viewstate.List[T], error) {
	var l viewstate.List[T]
	if err := f.views.Load(ctx, id, &l); err != nil {
		return nil, err
	}
	if l.Resource != f.res.plural {
		return nil, storage.ErrGone
	}
	return &l, nil
}

func (f *listFlow[T]) activate(c *gin.Context) (*viewstate.List[T], error) {
	ctx := c.Request.Context()
	f.disposePrevious(c)

	l := viewstate.NewList[T](uuid.NewString(), f.res.plural)
	if err := l.Load(ctx, f.fetch, f.res.msgFetchFailed()); err != nil {
		logCause(c, f.opts.Logger, "list_fetch_failed", err, slog.String("resource", f.res.plural))
	}
	if err := f.views.Create(ctx, l.ID, l); err != nil {
		return nil, err
	}

	f.opts.ViewCookies.Set(c, f.res.plural, l.ID)
	c.Set(middleware.CtxKeyView, l.ID)
	return l, nil
}

// disposePrevious tears down the instance this browser activated last.
func (f *listFlow[T]) disposePrevious(c *gin.Context) {
	prev, ok := f.opts.ViewCookies.Get(c, f.res.plural)
	if !ok {
		return
	}
	if err := f.views.Dispose(c.Request.Context(), prev); err != nil {
		f.opts.Logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "view_dispose_failed",
			slog.String("view", prev), slog.Any("err", err))
	}
}

// deleteFromList issues the delete and then applies its outcome to the
// instance: success filters the id out of the cached rows without asking
// the API again, failure shows an error and keeps the rows. The instance is
// changed in one store update so concurrent deletes on it all land. An
// instance that is gone by the time the result arrives is left alone.
func (f *listFlow[T]) deleteFromList(c *gin.Context, id int64, viewID string) {
	ctx := c.Request.Context()
	delErr := f.remove(ctx, id)
	if delErr != nil {
		logCause(c, f.opts.Logger, "list_delete_failed", delErr,
			slog.String("resource", f.res.plural), slog.Int64("id", id))
	}

	if viewID == "" {
		return
	}
	err := f.views.Update(ctx, viewID, func(decode func(any) error) (any, error) {
		var l viewstate.List[T]
		if err := decode(&l); err != nil {
			return nil, err
		}
		if l.Resource != f.res.plural {
			return nil, storage.ErrGone
		}
		if delErr != nil {
			l.Fail(f.res.msgListDeleteFailed())
		} else {
			l.Remove(id)
		}
		return &l, nil
	})
	if err != nil && !errors.Is(err, storage.ErrGone) {
		_ = c.Error(err)
	}
}
