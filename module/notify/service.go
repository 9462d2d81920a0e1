package notify

import (
	"context"

	"AMProject/module/notify/model"
	"AMProject/service/rest"
)

// Service is the notifications REST surface.
type Service struct {
	api *rest.Client
}

func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

// List fetches the user's notification feed, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]model.Notification, error) {
	var out []model.Notification
	err := s.api.GetJSON(ctx, "/notifications", map[string]string{"userId": userID}, &out)
	return out, err
}

// MarkRead confirms a read locally staged by the aggregator.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.api.PatchJSON(ctx, "/notifications/"+id+"/read", nil, nil)
}
