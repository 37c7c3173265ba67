package view

type ProductRow struct {
	ID       int64
	Name     string
	Category string
	Price    string
	Stock    string
}

type ProductListPage struct {
	ViewID  string
	Loading bool
	Error   string
	Rows    []ProductRow
}

type ProductDetail struct {
	ID          int64
	Name        string
	Category    string
	Price       string
	Stock       string
	Created     string
	Description string
	Tags        []string
}

// ProductForm is both the bind target of the product form and its values.
// Price stays text so an empty or malformed entry can be shown back as typed.
type ProductForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description" binding:"required"`
	Price       string `form:"price" binding:"required,price"`
	Category    string `form:"category" binding:"required"`
	Tags        string `form:"tags"`
	InStock     bool   `form:"in_stock"`
}

type ProductFormPage struct {
	FormStatus
	Fields ProductForm
}
