package handlers

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"crudapp.com/app/internal/http/flash"
	"crudapp.com/app/internal/http/middleware"
	"crudapp.com/app/internal/http/viewcookie"
	"crudapp.com/app/internal/shared/apperr"
	"crudapp.com/app/internal/viewstate"
	"crudapp.com/app/pkg/view"
)

const msgSaved = "Saved successfully!"

// Options are the settings every resource handler shares.
type Options struct {
	Logger        *slog.Logger
	Flash         *flash.Codec
	ViewCookies   *viewcookie.Codec
	RedirectDelay time.Duration
}

// resource names one CRUD resource for URLs and UI strings.
type resource struct {
	singular string // product
	plural   string // products
}

func (r resource) label() string  { return strings.ToUpper(r.singular[:1]) + r.singular[1:] }
func (r resource) labels() string { return strings.ToUpper(r.plural[:1]) + r.plural[1:] }

func (r resource) listURL() string           { return "/" + r.plural }
func (r resource) itemURL(id int64) string   { return fmt.Sprintf("/%s/%d", r.plural, id) }
func (r resource) deleteURL(id int64) string { return r.itemURL(id) + "/delete" }

func (r resource) viewURL(viewID string) string {
	if viewID == "" {
		return r.listURL()
	}
	return r.listURL() + "?view=" + viewID
}

func (r resource) msgFetchFailed() string {
	return fmt.Sprintf("Failed to fetch %s. Please try again.", r.plural)
}
func (r resource) msgListDeleteFailed() string {
	return fmt.Sprintf("Failed to delete %s. Please try again.", r.singular)
}
func (r resource) msgLoadFailed() string   { return "Failed to load " + r.singular }
func (r resource) msgCreateFailed() string { return "Failed to create " + r.singular }
func (r resource) msgUpdateFailed() string { return "Failed to update " + r.singular }
func (r resource) msgDeleteFailed() string { return "Failed to delete " + r.singular }
func (r resource) msgDeleted() string      { return r.label() + " deleted successfully" }
func (r resource) msgConfirmDelete() string {
	return fmt.Sprintf("Are you sure you want to delete this %s?", r.singular)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.E(apperr.Invalid, fmt.Errorf("malformed id %q", c.Param("id")))
	}
	return id, nil
}

// loadStatus is the status of a page whose entity could not be loaded:
// 404 when the id is unknown or malformed, 502 when the API failed.
func loadStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.NotFound, apperr.Invalid:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// refreshValue is the Refresh header/meta value navigating to url after d.
func refreshValue(d time.Duration, url string) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d;url=%s", secs, url)
}

// formStatus projects a form state onto what the page shows around it.
func formStatus[F any](f viewstate.Form[F], action, cancel string) view.FormStatus {
	st := view.FormStatus{
		Edit:        f.IsEdit(),
		FieldErrors: f.FieldErrors(),
		ActionURL:   action,
		CancelURL:   cancel,
	}
	switch f.Phase() {
	case viewstate.FormLoading:
		st.Loading = true
	case viewstate.FormError:
		st.Error = f.Message()
	case viewstate.FormSuccess:
		st.Success = msgSaved
	}
	return st
}

// formRefresh sets the Refresh header of a saved form and returns the
// matching meta value, or "" when the form has nowhere to go.
func formRefresh[F any](c *gin.Context, f viewstate.Form[F], delay time.Duration) string {
	if f.Phase() != viewstate.FormSuccess || f.Next() == "" {
		return ""
	}
	v := refreshValue(delay, f.Next())
	c.Header("Refresh", v)
	return v
}

func logCause(c *gin.Context, l *slog.Logger, msg string, err error, attrs ...slog.Attr) {
	attrs = append(attrs,
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("kind", string(apperr.KindOf(err))),
		slog.Any("err", err),
	)
	l.LogAttrs(c.Request.Context(), slog.LevelWarn, msg, attrs...)
}
