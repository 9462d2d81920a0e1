package submission

import (
	"context"

	"AMProject/module/submission/model"
	"AMProject/service/rest"
)

// Service is the intake-queue REST surface.
type Service struct {
	api *rest.Client
}

func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

// Recent fetches the new-submissions feed (status New, newest first).
func (s *Service) Recent(ctx context.Context) ([]model.Submission, error) {
	var out []model.Submission
	err := s.api.GetJSON(ctx, "/submissions/recent", nil, &out)
	return out, err
}
