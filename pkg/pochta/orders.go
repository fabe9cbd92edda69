package pochta

import (
	"context"
	"net/http"

	"github.com/tournevent/pochta/pkg/pochta/payload"
)

// Orders manages the backlog of new orders.
type Orders struct {
	client *Client
}

// NewOrders returns the backlog facade of c.
func NewOrders(c *Client) *Orders {
	return &Orders{client: c}
}

// Create adds orders to the backlog. The postage is calculated by the API.
func (o *Orders) Create(ctx context.Context, orders []*Order) (Object, error) {
	return call[Object](ctx, o.client, "orders.create", http.MethodPut, "/1.0/user/backlog", nil, ordersList(orders))
}

// Edit replaces the order with the given id.
func (o *Orders) Edit(ctx context.Context, id string, order *Order) (Object, error) {
	return call[Object](ctx, o.client, "orders.edit", http.MethodPut, "/1.0/backlog/"+id, nil, order.Payload().Value())
}

// Search finds orders by the shop-assigned order number.
func (o *Orders) Search(ctx context.Context, query string) ([]Object, error) {
	q := payload.Object{"query": payload.Scalar(query)}
	return call[[]Object](ctx, o.client, "orders.search", http.MethodGet, "/1.0/backlog/search", q, payload.Absent())
}

// ByID returns the backlog order with the given id.
func (o *Orders) ByID(ctx context.Context, id string) (Object, error) {
	return call[Object](ctx, o.client, "orders.by_id", http.MethodGet, "/1.0/backlog/"+id, nil, payload.Absent())
}

// Delete removes orders from the backlog.
func (o *Orders) Delete(ctx context.Context, ids []string) (Object, error) {
	return call[Object](ctx, o.client, "orders.delete", http.MethodDelete, "/1.0/backlog", nil, payload.Strings(ids))
}

// ReturnToBacklog moves shipments out of their batch back into the backlog.
// The batch must be in status CREATED.
func (o *Orders) ReturnToBacklog(ctx context.Context, shipmentIDs []string) (Object, error) {
	return call[Object](ctx, o.client, "orders.return_to_backlog", http.MethodPost, "/1.0/user/backlog", nil, payload.Strings(shipmentIDs))
}

func ordersList(orders []*Order) payload.Value {
	l := make(payload.List, len(orders))
	for i, o := range orders {
		l[i] = o.Payload().Value()
	}
	return l.Value()
}
