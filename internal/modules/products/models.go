package products

import "crudapp.com/app/internal/shared/apitime"

// Product as the API returns it.
type Product struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Category    string       `json:"category"`
	Tags        []string     `json:"tags"`
	InStock     bool         `json:"in_stock"`
	CreatedAt   apitime.Time `json:"created_at"`
}

func (p Product) EntityID() int64 { return p.ID }

// Input is the create/update body: a Product without id and created_at.
type Input struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	InStock     bool     `json:"in_stock"`
}
