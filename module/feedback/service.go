package feedback

import (
	"context"

	"AMProject/module/feedback/model"
	"AMProject/service/rest"
	"AMProject/tools/errs"
)

// Service is the customer-feedback REST surface.
type Service struct {
	api *rest.Client
}

func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

type FeedbackInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Submit posts a review. Rating bounds are checked client-side so an
// obviously bad form never leaves the device.
func (s *Service) Submit(ctx context.Context, in FeedbackInput) (model.Feedback, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return model.Feedback{}, errs.NewCodeError(errs.CodeValidation, "rating must be between 1 and 5")
	}
	var out model.Feedback
	err := s.api.PostJSON(ctx, "/feedback", in, &out)
	return out, err
}

func (s *Service) Public(ctx context.Context) ([]model.Feedback, error) {
	var out []model.Feedback
	err := s.api.GetJSON(ctx, "/feedback/public", nil, &out)
	return out, err
}

func (s *Service) Pending(ctx context.Context) ([]model.Feedback, error) {
	var out []model.Feedback
	err := s.api.GetJSON(ctx, "/feedback/pending", nil, &out)
	return out, err
}

func (s *Service) Approve(ctx context.Context, id string) error {
	return s.api.PatchJSON(ctx, "/feedback/"+id+"/approve", nil, nil)
}
