package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudapp.com/app/internal/apiclient"
	"crudapp.com/app/internal/http/flash"
	"crudapp.com/app/internal/http/viewcookie"
	"crudapp.com/app/internal/modules/products"
	"crudapp.com/app/internal/modules/users"
	"crudapp.com/app/internal/storage"
)

func init() { gin.SetMode(gin.TestMode) }

// stubAPI is a scripted REST API that records what it was asked.
type stubAPI struct {
	mu       sync.Mutex
	calls    []string
	bodies   map[string]map[string]any
	status   map[string]int // "GET /products" -> forced status
	products []products.Product
	users    []users.User
	nextID   int64
}

func newStubAPI() *stubAPI {
	s := &stubAPI{
		bodies: map[string]map[string]any{},
		status: map[string]int{},
		nextID: 42,
	}
	for i, name := range []string{"Laptop", "Mouse", "Desk"} {
		s.products = append(s.products, products.Product{
			ID: int64(i + 1), Name: name, Category: "Office", Price: float64(10 * (i + 1)),
			Tags: []string{"a"}, InStock: i%2 == 0,
		})
	}
	s.users = []users.User{{ID: 1, Name: "Ada", Email: "ada@example.com"}}
	return s
}

func (s *stubAPI) count(call string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (s *stubAPI) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	call := r.Method + " /" + parts[0]
	if len(parts) > 1 {
		call += "/" + parts[1]
	}
	s.calls = append(s.calls, call)

	if r.Body != nil {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			s.bodies[call] = body
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if code, ok := s.status[call]; ok {
		w.WriteHeader(code)
		_, _ = io.WriteString(w, `{"detail":"scripted failure"}`)
		return
	}

	var id int64
	if len(parts) > 1 {
		id, _ = strconv.ParseInt(parts[1], 10, 64)
	}

	switch {
	case parts[0] == "products" && r.Method == http.MethodGet && len(parts) == 1:
		_ = json.NewEncoder(w).Encode(s.products)
	case parts[0] == "products" && r.Method == http.MethodGet:
		for _, p := range s.products {
			if p.ID == id {
				_ = json.NewEncoder(w).Encode(p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Product not found"}`)
	case parts[0] == "products" && r.Method == http.MethodPost:
		body := s.bodies[call]
		_ = json.NewEncoder(w).Encode(map[string]any{"id": s.nextID, "name": body["name"], "tags": body["tags"]})
	case parts[0] == "products" && r.Method == http.MethodPut:
		body := s.bodies[call]
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "name": body["name"]})
	case parts[0] == "users" && r.Method == http.MethodGet && len(parts) == 1:
		_ = json.NewEncoder(w).Encode(s.users)
	case parts[0] == "users" && r.Method == http.MethodGet:
		for _, u := range s.users {
			if u.ID == id {
				_ = json.NewEncoder(w).Encode(u)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"User not found"}`)
	case parts[0] == "users" && r.Method == http.MethodPost:
		_ = json.NewEncoder(w).Encode(map[string]any{"id": s.nextID, "name": s.bodies[call]["name"]})
	case parts[0] == "users" && r.Method == http.MethodPut:
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
	case r.Method == http.MethodDelete:
		_, _ = io.WriteString(w, `{"message":"deleted successfully"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testApp struct {
	api    *stubAPI
	views  *storage.Memory
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithViews(t, func(s storage.Storage) storage.Storage { return s })
}

// newTestAppWithViews lets a test wrap the view store the router sees.
func newTestAppWithViews(t *testing.T, wrap func(storage.Storage) storage.Storage) *testApp {
	t.Helper()
	api := newStubAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := apiclient.New(srv.URL)
	views := storage.NewMemory(time.Minute)
	r := NewRouter(Deps{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Products:      products.NewService(client),
		Users:         users.NewService(client),
		Views:         wrap(views),
		Flash:         flash.NewCodec([]byte("test-secret"), "flash", false),
		ViewCookies:   viewcookie.New([]byte("test-secret"), false, time.Minute),
		RedirectDelay: time.Second,
	})
	return &testApp{api: api, views: views, router: r}
}

func (a *testApp) do(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func viewCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

// listViewID is the instance id carried in the signed lv_<resource> cookie.
func listViewID(t *testing.T, w *httptest.ResponseRecorder, resource string) string {
	t.Helper()
	id, _, ok := strings.Cut(viewCookie(t, w, viewcookie.Name(resource)).Value, ".")
	require.True(t, ok)
	return id
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestUnknownPathGoesHome(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/nope/nothing", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), "Welcome to CRUD App")
}

func TestProductListRendersResponseInOrder(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/products", nil)

	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()
	assert.Equal(t, 3, strings.Count(html, "<tr data-id="))
	assert.Less(t, strings.Index(html, "Laptop"), strings.Index(html, "Mouse"))
	assert.Less(t, strings.Index(html, "Mouse"), strings.Index(html, "Desk"))
	assert.Contains(t, html, "$10.00")
}

func TestProductListFetchFailure(t *testing.T) {
	app := newTestApp(t)
	app.api.status["GET /products"] = http.StatusInternalServerError

	w := app.do(http.MethodGet, "/products", nil)

	assert.Contains(t, w.Body.String(), "Failed to fetch products. Please try again.")
	assert.Equal(t, 0, strings.Count(w.Body.String(), "<tr data-id="))
}

func TestListReRenderDoesNotFetch(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/products", nil)
	viewID := listViewID(t, w, "products")

	w = app.do(http.MethodGet, "/products?view="+viewID, nil)
	assert.Equal(t, 3, strings.Count(w.Body.String(), "<tr data-id="))
	assert.Equal(t, 1, app.api.count("GET /products"))

	w = app.do(http.MethodGet, "/products?view=unknown", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, app.api.count("GET /products"))
}

func TestConfirmedDeleteRemovesOneRowWithoutRefetch(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/products", nil)
	viewID := listViewID(t, w, "products")

	w = app.do(http.MethodPost, "/products/2/delete", url.Values{"confirm": {"1"}, "view": {viewID}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/products?view="+viewID, w.Header().Get("Location"))
	assert.Equal(t, 1, app.api.count("DELETE /products/2"))

	w = app.do(http.MethodGet, "/products?view="+viewID, nil)
	html := w.Body.String()
	assert.Equal(t, 2, strings.Count(html, "<tr data-id="))
	assert.NotContains(t, html, `data-id="2"`)
	assert.Contains(t, html, `data-id="1"`)
	assert.Contains(t, html, `data-id="3"`)
	assert.Equal(t, 1, app.api.count("GET /products"))
}

func TestDeclinedDeleteIssuesNoRequest(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/products", nil)
	viewID := listViewID(t, w, "products")
	before := app.api.total()

	w = app.do(http.MethodGet, "/products/2/delete?view="+viewID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Are you sure you want to delete this product?")
	assert.Contains(t, w.Body.String(), `href="/products?view=`+viewID+`"`)

	w = app.do(http.MethodPost, "/products/2/delete", url.Values{"view": {viewID}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/products?view="+viewID, w.Header().Get("Location"))

	assert.Equal(t, before, app.api.total())
	w = app.do(http.MethodGet, "/products?view="+viewID, nil)
	assert.Equal(t, 3, strings.Count(w.Body.String(), "<tr data-id="))
}

func TestListDeleteFailureKeepsRows(t *testing.T) {
	app := newTestApp(t)
	app.api.status["DELETE /products/1"] = http.StatusInternalServerError
	w := app.do(http.MethodGet, "/products", nil)
	viewID := listViewID(t, w, "products")

	app.do(http.MethodPost, "/products/1/delete", url.Values{"confirm": {"1"}, "view": {viewID}})

	w = app.do(http.MethodGet, "/products?view="+viewID, nil)
	assert.Contains(t, w.Body.String(), "Failed to delete product. Please try again.")
	assert.Equal(t, 3, strings.Count(w.Body.String(), "<tr data-id="))
}

func TestLateDeleteOnDisposedViewIsNoop(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/products", nil)
	cookie := viewCookie(t, w, "lv_products")
	first := listViewID(t, w, "products")

	// a fresh activation disposes the previous instance
	w = app.do(http.MethodGet, "/products", nil, cookie)
	require.NotEqual(t, first, listViewID(t, w, "products"))

	var gone struct{}
	assert.ErrorIs(t, app.views.Load(t.Context(), first, &gone), storage.ErrGone)

	w = app.do(http.MethodPost, "/products/2/delete", url.Values{"confirm": {"1"}, "view": {first}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.ErrorIs(t, app.views.Load(t.Context(), first, &gone), storage.ErrGone)
}

// gatedViews holds each Update until every party of gate has reached it.
type gatedViews struct {
	storage.Storage
	gate *sync.WaitGroup
}

func (g gatedViews) Update(ctx context.Context, id string, fn storage.Mutator) error {
	g.gate.Done()
	g.gate.Wait()
	return g.Storage.Update(ctx, id, fn)
}

func TestConcurrentDeletesOnOneViewAllLand(t *testing.T) {
	var gate sync.WaitGroup
	gate.Add(2)
	app := newTestAppWithViews(t, func(s storage.Storage) storage.Storage {
		return gatedViews{Storage: s, gate: &gate}
	})
	w := app.do(http.MethodGet, "/products", nil)
	viewID := listViewID(t, w, "products")

	var wg sync.WaitGroup
	codes := make(chan int, 2)
	for _, id := range []string{"1", "3"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := app.do(http.MethodPost, "/products/"+id+"/delete", url.Values{"confirm": {"1"}, "view": {viewID}})
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		assert.Equal(t, http.StatusSeeOther, code)
	}

	w = app.do(http.MethodGet, "/products?view="+viewID, nil)
	html := w.Body.String()
	assert.Equal(t, 1, strings.Count(html, "<tr data-id="))
	assert.Contains(t, html, `data-id="2"`)
	assert.Equal(t, 1, app.api.count("DELETE /products/1"))
	assert.Equal(t, 1, app.api.count("DELETE /products/3"))
	assert.Equal(t, 1, app.api.count("GET /products"))
}

func TestForgedViewCookieDisposesNothing(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/products", nil)
	victim := listViewID(t, w, "products")

	forged := &http.Cookie{Name: "lv_products", Value: victim + ".bogus"}
	app.do(http.MethodGet, "/products", nil, forged)

	var l struct{}
	assert.NoError(t, app.views.Load(t.Context(), victim, &l))
}

func TestCreateProductNavigatesToNewID(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodPost, "/products", url.Values{
		"name": {"Widget"}, "description": {"Blue"}, "price": {"9.99"},
		"category": {"Tools"}, "tags": {"a, b, c"}, "in_stock": {"true"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1;url=/products/42", w.Header().Get("Refresh"))
	assert.Contains(t, w.Body.String(), "Saved successfully!")
	assert.NotContains(t, w.Body.String(), "error-message")

	body := app.api.bodies["POST /products"]
	assert.Equal(t, []any{"a", "b", "c"}, body["tags"])
	assert.Equal(t, 9.99, body["price"])
	assert.Equal(t, true, body["in_stock"])
}

func TestCreateProductFailureKeepsFields(t *testing.T) {
	app := newTestApp(t)
	app.api.status["POST /products"] = http.StatusInternalServerError

	w := app.do(http.MethodPost, "/products", url.Values{
		"name": {"Widget"}, "description": {"Blue"}, "price": {"9.99"}, "category": {"Tools"},
	})

	assert.Contains(t, w.Body.String(), "Failed to create product")
	assert.Contains(t, w.Body.String(), `value="Widget"`)
	assert.Empty(t, w.Header().Get("Refresh"))
	assert.NotContains(t, w.Body.String(), "Saved successfully!")
}

func TestCreateProductValidation(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodPost, "/products", url.Values{"price": {"-1"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
	assert.Contains(t, w.Body.String(), "Enter a price of 0 or more.")
	assert.Equal(t, 0, app.api.count("POST /products"))
}

func TestCreateProductWithInfinitePriceIsRejectedLocally(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodPost, "/products", url.Values{
		"name": {"Widget"}, "description": {"d"}, "category": {"Tools"}, "price": {"Inf"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Enter a price of 0 or more.")
	assert.NotContains(t, w.Body.String(), "Failed to create product")
	assert.Equal(t, 0, app.api.count("POST /products"))
}

func TestEditProduct(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/products/1/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Laptop"`)
	assert.Contains(t, w.Body.String(), `action="/products/1"`)

	w = app.do(http.MethodPost, "/products/1", url.Values{
		"name": {"Laptop Pro"}, "description": {"x"}, "price": {"10"}, "category": {"Office"},
	})
	assert.Equal(t, "1;url=/products/1", w.Header().Get("Refresh"))
	assert.Contains(t, w.Body.String(), "Saved successfully!")
	assert.Equal(t, 1, app.api.count("PUT /products/1"))
	assert.Equal(t, false, app.api.bodies["PUT /products/1"]["in_stock"])
}

func TestEditProductLoadFailure(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/products/99/edit", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to load product")
	assert.Contains(t, w.Body.String(), `name="name" type="text" value=""`)
}

func TestProductDetail(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "✓ In Stock")
	assert.Contains(t, w.Body.String(), `<span class="tag">a</span>`)

	w = app.do(http.MethodGet, "/products/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to load product")

	app.api.status["GET /products/1"] = http.StatusInternalServerError
	w = app.do(http.MethodGet, "/products/1", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `href="/products"`)
}

func TestDeleteFromDetail(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/products/3/delete", url.Values{"confirm": {"1"}, "from": {"detail"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/products", w.Header().Get("Location"))
	flashCookie := viewCookie(t, w, "flash")

	w = app.do(http.MethodGet, "/products", nil, flashCookie)
	assert.Contains(t, w.Body.String(), "Product deleted successfully")

	app.api.status["DELETE /products/1"] = http.StatusInternalServerError
	w = app.do(http.MethodPost, "/products/1/delete", url.Values{"confirm": {"1"}, "from": {"detail"}})
	assert.Equal(t, "/products/1", w.Header().Get("Location"))
	w = app.do(http.MethodGet, "/products/1", nil, viewCookie(t, w, "flash"))
	assert.Contains(t, w.Body.String(), "Failed to delete product")
}

func TestUserDetailNotFound(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/users/7", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to load user")
	assert.Contains(t, w.Body.String(), `href="/users"`)
}

func TestUserCreateRequiresPassword(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodPost, "/users", url.Values{"name": {"Bob"}, "email": {"bob@example.com"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
	assert.Equal(t, 0, app.api.count("POST /users"))

	w = app.do(http.MethodPost, "/users", url.Values{"name": {"Bob"}, "email": {"bob@example.com"}, "password": {"s3cret"}})
	assert.Equal(t, "1;url=/users/42", w.Header().Get("Refresh"))
	assert.Equal(t, "s3cret", app.api.bodies["POST /users"]["password"])
	assert.NotContains(t, w.Body.String(), "s3cret")
}

func TestUserUpdateOmitsEmptyPassword(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/users/1/edit", nil)
	assert.Contains(t, w.Body.String(), "New Password (leave empty to keep current)")
	assert.Contains(t, w.Body.String(), `value="ada@example.com"`)

	w = app.do(http.MethodPost, "/users/1", url.Values{"name": {"Ada L"}, "email": {"ada@example.com"}, "password": {""}})
	assert.Equal(t, "1;url=/users/1", w.Header().Get("Refresh"))
	_, sent := app.api.bodies["PUT /users/1"]["password"]
	assert.False(t, sent)
}

func TestUserListAndDelete(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/users", nil)
	assert.Contains(t, w.Body.String(), "ada@example.com")
	assert.Contains(t, w.Body.String(), `class="nav-link active">Users`)
	viewID := listViewID(t, w, "users")

	app.do(http.MethodPost, "/users/1/delete", url.Values{"confirm": {"1"}, "view": {viewID}})
	w = app.do(http.MethodGet, "/users?view="+viewID, nil)
	assert.Contains(t, w.Body.String(), "No users found")
	assert.Equal(t, 1, app.api.count("GET /users"))
}

func TestViewIDOfOtherResourceIsNotReused(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/users", nil)
	viewID := listViewID(t, w, "users")

	w = app.do(http.MethodGet, "/products?view="+viewID, nil)
	assert.Equal(t, 3, strings.Count(w.Body.String(), "<tr data-id="))
	assert.Equal(t, 1, app.api.count("GET /products"))
}

func TestStaticCSS(t *testing.T) {
	app := newTestApp(t)
	w := app.do(http.MethodGet, "/static/app.css", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".spinner")
}
