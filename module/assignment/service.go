package assignment

import (
	"context"

	"AMProject/module/assignment/model"
	"AMProject/service/rest"
)

// Service is the assignments REST surface. Pricing and payment rules live
// server-side; these calls only trigger them.
type Service struct {
	api *rest.Client
}

func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

// List fetches the filtered snapshot the view seeds from.
func (s *Service) List(ctx context.Context, search, status string) ([]model.Assignment, error) {
	q := map[string]string{}
	if search != "" {
		q["search"] = search
	}
	if status != "" {
		q["status"] = status
	}
	var out []model.Assignment
	err := s.api.GetJSON(ctx, "/assignments", q, &out)
	return out, err
}

type priceBody struct {
	Price float64 `json:"price"`
}

// SetPrice is the admin pricing action on a new submission.
func (s *Service) SetPrice(ctx context.Context, id string, price float64) error {
	return s.api.PatchJSON(ctx, "/assignments/"+id+"/price", priceBody{Price: price}, nil)
}

// AcceptPrice / RejectPrice are the customer's answer to a quote.
func (s *Service) AcceptPrice(ctx context.Context, id string) error {
	return s.api.PatchJSON(ctx, "/assignments/"+id+"/accept-price", nil, nil)
}

func (s *Service) RejectPrice(ctx context.Context, id string) error {
	return s.api.PatchJSON(ctx, "/assignments/"+id+"/reject-price", nil, nil)
}

// ConfirmPayment is the admin acknowledgment of a received payment.
func (s *Service) ConfirmPayment(ctx context.Context, id string) error {
	return s.api.PatchJSON(ctx, "/assignments/"+id+"/confirm-payment", nil, nil)
}

// DownloadFile saves an assignment attachment into destDir.
func (s *Service) DownloadFile(ctx context.Context, id, destDir string) (string, error) {
	return s.api.Download(ctx, "/assignments/"+id+"/file", destDir)
}
