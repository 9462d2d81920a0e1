package user

import (
	"context"

	"AMProject/module/user/model"
	"AMProject/service/rest"
)

// Service is the accounts REST surface used by the admin screens.
type Service struct {
	api *rest.Client
}

func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := s.api.GetJSON(ctx, "/users", nil, &out)
	return out, err
}

type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

func (s *Service) Create(ctx context.Context, in UserInput) (model.User, error) {
	var out model.User
	err := s.api.PostJSON(ctx, "/users", in, &out)
	return out, err
}

func (s *Service) Update(ctx context.Context, id string, in UserInput) (model.User, error) {
	var out model.User
	err := s.api.PutJSON(ctx, "/users/"+id, in, &out)
	return out, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, "/users/"+id)
}

func (s *Service) Writers(ctx context.Context) ([]model.Writer, error) {
	var out []model.Writer
	err := s.api.GetJSON(ctx, "/writers", nil, &out)
	return out, err
}

func (s *Service) Writer(ctx context.Context, id string) (model.Writer, error) {
	var out model.Writer
	err := s.api.GetJSON(ctx, "/writers/"+id, nil, &out)
	return out, err
}
