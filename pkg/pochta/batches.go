package pochta

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tournevent/pochta/pkg/pochta/payload"
)

const dateLayout = "2006-01-02"

// Batches manages batches of orders handed over to a post office together.
type Batches struct {
	client *Client
}

// NewBatches returns the batch facade of c.
func NewBatches(c *Client) *Batches {
	return &Batches{client: c}
}

// Page selects one page of a listing. Nil fields are not sent, so the API
// applies its own defaults; page numbers start at 0. Sort defaults to "asc".
type Page struct {
	Sort string
	Size *int
	Page *int
}

func (p Page) query() payload.Object {
	sort := p.Sort
	if sort == "" {
		sort = "asc"
	}
	return payload.Object{
		"sort": payload.Scalar(sort),
		"size": payload.Opt(p.Size),
		"page": payload.Opt(p.Page),
	}
}

// Create builds batches from backlog orders and assigns barcodes. Orders of
// different types and categories end up in different batches. A nil
// sendingDate leaves the choice to the API.
func (b *Batches) Create(ctx context.Context, orderIDs []string, sendingDate *time.Time) (Object, error) {
	q := payload.Object{"sending-date": optDate(sendingDate)}
	return call[Object](ctx, b.client, "batches.create", http.MethodPost, "/1.0/user/shipment", q, payload.Strings(orderIDs))
}

// ChangeSendingDate sets the day the batch is handed over to the post office.
func (b *Batches) ChangeSendingDate(ctx context.Context, name string, year, month, day int) (Object, error) {
	path := fmt.Sprintf("/1.0/batch/%s/sending/%d/%d/%d", name, year, month, day)
	return call[Object](ctx, b.client, "batches.change_sending_date", http.MethodPost, path, nil, payload.Absent())
}

// MoveOrders moves backlog orders into an existing batch. Orders that do not
// fit the batch are reported per index; the rest are moved.
func (b *Batches) MoveOrders(ctx context.Context, name string, orderIDs []string) (Object, error) {
	return call[Object](ctx, b.client, "batches.move_orders", http.MethodPost, "/1.0/batch/"+name+"/shipment", nil, payload.Strings(orderIDs))
}

// Find returns the batch with the given name.
func (b *Batches) Find(ctx context.Context, name string) (Object, error) {
	return call[Object](ctx, b.client, "batches.find", http.MethodGet, "/1.0/batch/"+name, nil, payload.Absent())
}

// FindOrdersWithBarcode searches batched orders by barcode or order number.
func (b *Batches) FindOrdersWithBarcode(ctx context.Context, query string) ([]Object, error) {
	q := payload.Object{"query": payload.Scalar(query)}
	return call[[]Object](ctx, b.client, "batches.find_orders", http.MethodGet, "/1.0/shipment/search", q, payload.Absent())
}

// AddOrders creates orders directly inside a batch.
func (b *Batches) AddOrders(ctx context.Context, name string, orders []*Order) (Object, error) {
	return call[Object](ctx, b.client, "batches.add_orders", http.MethodPut, "/1.0/batch/"+name+"/shipment", nil, ordersList(orders))
}

// DeleteOrders removes orders from their batches.
func (b *Batches) DeleteOrders(ctx context.Context, shipmentIDs []string) (Object, error) {
	return call[Object](ctx, b.client, "batches.delete_orders", http.MethodDelete, "/1.0/shipment", nil, payload.Strings(shipmentIDs))
}

// Orders lists the orders of a batch.
func (b *Batches) Orders(ctx context.Context, name string, page Page) ([]Object, error) {
	return call[[]Object](ctx, b.client, "batches.orders", http.MethodGet, "/1.0/batch/"+name+"/shipment", page.query(), payload.Absent())
}

// BatchFilter narrows SearchAll. Empty fields are not sent.
type BatchFilter struct {
	MailType     MailType
	MailCategory MailCategory
}

// SearchAll lists batches, optionally filtered by type and category.
func (b *Batches) SearchAll(ctx context.Context, filter BatchFilter, page Page) ([]Object, error) {
	q := page.query()
	if filter.MailType != "" {
		q["mailType"] = payload.Scalar(filter.MailType)
	}
	if filter.MailCategory != "" {
		q["mailCategory"] = payload.Scalar(filter.MailCategory)
	}
	return call[[]Object](ctx, b.client, "batches.search_all", http.MethodGet, "/1.0/batch", q, payload.Absent())
}

// OrderByID returns a batched order by its internal id.
func (b *Batches) OrderByID(ctx context.Context, id string) (Object, error) {
	return call[Object](ctx, b.client, "batches.order_by_id", http.MethodGet, "/1.0/shipment/"+id, nil, payload.Absent())
}

func optDate(t *time.Time) payload.Value {
	if t == nil {
		return payload.Absent()
	}
	return payload.Scalar(t.Format(dateLayout))
}
