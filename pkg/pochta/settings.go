package pochta

import (
	"context"
	"net/http"

	"github.com/tournevent/pochta/pkg/pochta/payload"
)

// Settings reads account settings.
type Settings struct {
	client *Client
}

// NewSettings returns the account settings facade of c.
func NewSettings(c *Client) *Settings {
	return &Settings{client: c}
}

// ShippingPoints lists the user's current shipping points.
func (s *Settings) ShippingPoints(ctx context.Context) ([]Object, error) {
	return call[[]Object](ctx, s.client, "settings.shipping_points", http.MethodGet, "/1.0/user-shipping-points", nil, payload.Absent())
}

// User returns all settings of the user.
func (s *Settings) User(ctx context.Context) (Object, error) {
	return call[Object](ctx, s.client, "settings.user", http.MethodGet, "/1.0/settings", nil, payload.Absent())
}
