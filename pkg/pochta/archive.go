package pochta

import (
	"context"
	"net/http"

	"github.com/tournevent/pochta/pkg/pochta/payload"
)

// Archive moves batches in and out of the archive.
type Archive struct {
	client *Client
}

// NewArchive returns the archive facade of c.
func NewArchive(c *Client) *Archive {
	return &Archive{client: c}
}

// Batches lists archived batches.
func (a *Archive) Batches(ctx context.Context) ([]Object, error) {
	return call[[]Object](ctx, a.client, "archive.batches", http.MethodGet, "/1.0/archive", nil, payload.Absent())
}

// Archive moves batches to the archive.
func (a *Archive) Archive(ctx context.Context, batches []string) ([]Object, error) {
	return call[[]Object](ctx, a.client, "archive.archive", http.MethodPut, "/1.0/archive", nil, payload.Strings(batches))
}

// Revert brings batches back from the archive.
func (a *Archive) Revert(ctx context.Context, batches []string) ([]Object, error) {
	return call[[]Object](ctx, a.client, "archive.revert", http.MethodPost, "/1.0/archive/revert", nil, payload.Strings(batches))
}

// LongTermArchive searches shipments kept in long-term storage.
type LongTermArchive struct {
	client *Client
}

// NewLongTermArchive returns the long-term archive facade of c.
func NewLongTermArchive(c *Client) *LongTermArchive {
	return &LongTermArchive{client: c}
}

// SearchShipments finds archived shipments by barcode or order number.
func (l *LongTermArchive) SearchShipments(ctx context.Context, query string) ([]Object, error) {
	q := payload.Object{"query": payload.Scalar(query)}
	return call[[]Object](ctx, l.client, "lta.search_shipments", http.MethodGet, "/1.0/long-term-archive/shipment/search", q, payload.Absent())
}
