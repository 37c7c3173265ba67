package users

import (
	"context"
	"fmt"

	"crudapp.com/app/internal/apiclient"
)

const basePath = "/users"

// Service is a passthrough to the REST API; it only interpolates paths.
type Service struct{ api *apiclient.Client }

func NewService(api *apiclient.Client) *Service { return &Service{api: api} }

func itemPath(id int64) string { return fmt.Sprintf("%s/%d", basePath, id) }

func (s *Service) List(ctx context.Context) ([]User, error) {
	var items []User
	if err := s.api.Get(ctx, basePath, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	var u User
	err := s.api.Get(ctx, itemPath(id), &u)
	return u, err
}

func (s *Service) Create(ctx context.Context, in Input) (User, error) {
	var u User
	err := s.api.Post(ctx, basePath, in, &u)
	return u, err
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (User, error) {
	var u User
	err := s.api.Put(ctx, itemPath(id), in, &u)
	return u, err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, itemPath(id))
}
