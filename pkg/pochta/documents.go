package pochta

import (
	"context"
	"net/http"
	"time"

	"github.com/tournevent/pochta/pkg/pochta/payload"
)

// Documents generates printed forms. Form methods return the response with
// an open Stream holding the PDF or ZIP file; the caller must close it.
type Documents struct {
	client *Client
}

// NewDocuments returns the printed forms facade of c.
func NewDocuments(c *Client) *Documents {
	return &Documents{client: c}
}

// FormOptions are the optional query parameters of the per-order forms.
type FormOptions struct {
	SendingDate *time.Time
	PrintType   *PrintType
}

func (o FormOptions) query() payload.Object {
	return payload.Object{
		"sending-date": optDate(o.SendingDate),
		"print-type":   payload.Opt(o.PrintType),
	}
}

// AllDocs returns a ZIP archive with every document of the batch: the order
// list as XLS and CSV, form F103 and the accompanying forms.
func (d *Documents) AllDocs(ctx context.Context, batch string) (*Response, error) {
	return stream(ctx, d.client, "documents.all", "/1.0/forms/"+batch+"/zip-all", nil)
}

// F7F22 returns form F7p for an order, with F22 attached for online parcels.
func (d *Documents) F7F22(ctx context.Context, orderID string, opts FormOptions) (*Response, error) {
	return stream(ctx, d.client, "documents.f7f22", "/1.0/forms/"+orderID+"/f7pdf", opts.query())
}

// F112 returns form F112EK for a cash-on-delivery order.
func (d *Documents) F112(ctx context.Context, orderID string, sendingDate *time.Time) (*Response, error) {
	q := payload.Object{"sending-date": optDate(sendingDate)}
	return stream(ctx, d.client, "documents.f112", "/1.0/forms/"+orderID+"/f112pdf", q)
}

// FormsBacklog returns the forms of a backlog order, before it is batched.
func (d *Documents) FormsBacklog(ctx context.Context, orderID string, sendingDate *time.Time) (*Response, error) {
	q := payload.Object{"sending-date": optDate(sendingDate)}
	return stream(ctx, d.client, "documents.forms_backlog", "/1.0/forms/backlog/"+orderID+"/forms", q)
}

// Forms returns the forms of a batched order.
func (d *Documents) Forms(ctx context.Context, orderID string, opts FormOptions) (*Response, error) {
	return stream(ctx, d.client, "documents.forms", "/1.0/forms/"+orderID+"/forms", opts.query())
}

// F103 returns form F103 for a batch.
func (d *Documents) F103(ctx context.Context, batch string) (*Response, error) {
	return stream(ctx, d.client, "documents.f103", "/1.0/forms/"+batch+"/f103pdf", nil)
}

// CompletenessCheckingForm returns the contents inspection form of a batch.
func (d *Documents) CompletenessCheckingForm(ctx context.Context, batch string) (*Response, error) {
	return stream(ctx, d.client, "documents.completeness_checking", "/1.0/forms/"+batch+"/completeness-checking-form", nil)
}

// Checkin versions the batch for acceptance at the post office and emails the
// electronic F103 to it.
func (d *Documents) Checkin(ctx context.Context, batch string) (Object, error) {
	return call[Object](ctx, d.client, "documents.checkin", http.MethodGet, "/1.0/batch/"+batch+"/checkin", nil, payload.Absent())
}
