package products

import (
	"context"
	"fmt"

	"crudapp.com/app/internal/apiclient"
)

const basePath = "/products"

// Service is a passthrough to the REST API; it only interpolates paths.
type Service struct{ api *apiclient.Client }

func NewService(api *apiclient.Client) *Service { return &Service{api: api} }

func itemPath(id int64) string { return fmt.Sprintf("%s/%d", basePath, id) }

// List keeps the server's order.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	var items []Product
	if err := s.api.Get(ctx, basePath, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := s.api.Get(ctx, itemPath(id), &p)
	return p, err
}

func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	var p Product
	err := s.api.Post(ctx, basePath, in, &p)
	return p, err
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Product, error) {
	var p Product
	err := s.api.Put(ctx, itemPath(id), in, &p)
	return p, err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, itemPath(id))
}
