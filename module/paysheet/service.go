package paysheet

import (
	"context"
	"io"

	"AMProject/module/paysheet/model"
	"AMProject/service/rest"
	"AMProject/tools/errs"
)

// Service is the paysheets REST surface.
type Service struct {
	api *rest.Client
}

func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context) ([]model.Paysheet, error) {
	var out []model.Paysheet
	err := s.api.GetJSON(ctx, "/paysheets", nil, &out)
	return out, err
}

// Generate asks the server to cut paysheets for the current period.
func (s *Service) Generate(ctx context.Context) ([]model.Paysheet, error) {
	var out []model.Paysheet
	err := s.api.PostJSON(ctx, "/paysheets/generate", nil, &out)
	return out, err
}

// MarkPaid uploads the payment proof and flips the sheet to Paid. A missing
// proof is a validation error raised before any network call; the submit
// action stays blocked until a proof is attached.
func (s *Service) MarkPaid(ctx context.Context, id, proofName string, proof io.Reader) error {
	if proof == nil || proofName == "" {
		return errs.NewCodeError(errs.CodeValidation, "payment proof is required")
	}
	return s.api.PatchMultipart(ctx, "/paysheets/"+id+"/paid", nil, "proof", proofName, proof, nil)
}

// DownloadStatement saves the paysheet statement into destDir.
func (s *Service) DownloadStatement(ctx context.Context, id, destDir string) (string, error) {
	return s.api.Download(ctx, "/paysheets/"+id+"/statement", destDir)
}
