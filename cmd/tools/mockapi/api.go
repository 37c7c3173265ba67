package main

import (
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"crudapp.com/app/internal/modules/products"
	"crudapp.com/app/internal/modules/users"
	"crudapp.com/app/internal/shared/apitime"
)

type db struct {
	mu       sync.Mutex
	products []products.Product
	users    []users.User
	nextPID  int64
	nextUID  int64
}

func newDB() *db { return &db{nextPID: 1, nextUID: 1} }

func (d *db) seed() {
	for _, in := range []products.Input{
		{Name: "Laptop", Description: "14 inch, 16GB RAM", Price: 1299.99, Category: "Electronics", Tags: []string{"tech", "portable"}, InStock: true},
		{Name: "Desk Chair", Description: "Ergonomic office chair", Price: 249.5, Category: "Furniture", Tags: []string{"office"}, InStock: false},
	} {
		d.createProduct(in)
	}
	d.createUser(users.Input{Name: "Ada Lovelace", Email: "ada@example.com", Password: "secret"})
}

func now() apitime.Time { return apitime.Time{Time: time.Now().UTC()} }

func (d *db) createProduct(in products.Input) products.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := productFrom(d.nextPID, in)
	p.CreatedAt = now()
	d.nextPID++
	d.products = append(d.products, p)
	return p
}

func (d *db) createUser(in users.Input) users.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := users.User{ID: d.nextUID, Name: in.Name, Email: in.Email, CreatedAt: now()}
	d.nextUID++
	d.users = append(d.users, u)
	return u
}

func productFrom(id int64, in products.Input) products.Product {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return products.Product{
		ID: id, Name: in.Name, Description: in.Description, Price: in.Price,
		Category: in.Category, Tags: tags, InStock: in.InStock,
	}
}

type productBody struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gte=0"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	InStock     bool     `json:"in_stock"`
}

type userBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

func newRouter(d *db) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) })

	r.GET("/products", d.listProducts)
	r.POST("/products", d.postProduct)
	r.GET("/products/:id", d.getProduct)
	r.PUT("/products/:id", d.putProduct)
	r.DELETE("/products/:id", d.deleteProduct)

	r.GET("/users", d.listUsers)
	r.POST("/users", d.postUser)
	r.GET("/users/:id", d.getUser)
	r.PUT("/users/:id", d.putUser)
	r.DELETE("/users/:id", d.deleteUser)
	return r
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "id must be an integer"})
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"detail": what + " not found"})
}

func (d *db) listProducts(c *gin.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c.JSON(http.StatusOK, d.products)
}

func (d *db) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.IndexFunc(d.products, func(p products.Product) bool { return p.ID == id })
	if i < 0 {
		notFound(c, "Product")
		return
	}
	c.JSON(http.StatusOK, d.products[i])
}

func (d *db) postProduct(c *gin.Context) {
	var in productBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d.createProduct(products.Input(in)))
}

func (d *db) putProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in productBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.IndexFunc(d.products, func(p products.Product) bool { return p.ID == id })
	if i < 0 {
		notFound(c, "Product")
		return
	}
	p := productFrom(id, products.Input(in))
	p.CreatedAt = d.products[i].CreatedAt
	d.products[i] = p
	c.JSON(http.StatusOK, p)
}

func (d *db) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.products)
	d.products = slices.DeleteFunc(d.products, func(p products.Product) bool { return p.ID == id })
	if len(d.products) == n {
		notFound(c, "Product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (d *db) listUsers(c *gin.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c.JSON(http.StatusOK, d.users)
}

func (d *db) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.IndexFunc(d.users, func(u users.User) bool { return u.ID == id })
	if i < 0 {
		notFound(c, "User")
		return
	}
	c.JSON(http.StatusOK, d.users[i])
}

func (d *db) postUser(c *gin.Context) {
	var in userBody
	if err := c.ShouldBindJSON(&in); err != nil || in.Password == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "name, email and password are required"})
		return
	}
	c.JSON(http.StatusOK, d.createUser(users.Input(in)))
}

// putUser keeps the stored password when none is sent; the mock never
// stores passwords at all, so only name and email change.
func (d *db) putUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in userBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.IndexFunc(d.users, func(u users.User) bool { return u.ID == id })
	if i < 0 {
		notFound(c, "User")
		return
	}
	d.users[i].Name = in.Name
	d.users[i].Email = in.Email
	c.JSON(http.StatusOK, d.users[i])
}

func (d *db) deleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.users)
	d.users = slices.DeleteFunc(d.users, func(u users.User) bool { return u.ID == id })
	if len(d.users) == n {
		notFound(c, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
