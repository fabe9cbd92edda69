package pochta

import (
	"context"
	"net/http"

	"github.com/tournevent/pochta/pkg/pochta/payload"
)

// Data covers the endpoints outside any resource group: normalization of
// addresses, names and phones, the unreliable recipient check, the account
// balance and tariff calculation.
//
// Normalization results come back in no particular order. Match them to the
// input by the "id" field, which carries the record's correlation id.
type Data struct {
	client *Client
}

// NewData returns the facade of c for ungrouped endpoints.
func NewData(c *Client) *Data {
	return &Data{client: c}
}

// NormalizeAddresses splits free-form addresses into their parts and finds
// the serving post office index.
func (d *Data) NormalizeAddresses(ctx context.Context, addresses []Address) ([]Object, error) {
	return call[[]Object](ctx, d.client, "data.clean_address", http.MethodPost, "/1.0/clean/address", nil, listOf(addresses))
}

// NormalizeNames splits full names into surname, name and patronymic.
func (d *Data) NormalizeNames(ctx context.Context, names []Name) ([]Object, error) {
	return call[[]Object](ctx, d.client, "data.clean_name", http.MethodPost, "/1.0/clean/physical", nil, listOf(names))
}

// NormalizePhones splits phone numbers into country, city code and number.
func (d *Data) NormalizePhones(ctx context.Context, phones []Phone) ([]Object, error) {
	return call[[]Object](ctx, d.client, "data.clean_phone", http.MethodPost, "/1.0/clean/phone", nil, listOf(phones))
}

// UnreliableRecipients checks recipients against the provider's list of
// unreliable recipients.
func (d *Data) UnreliableRecipients(ctx context.Context, recipients []Recipient) ([]Object, error) {
	return call[[]Object](ctx, d.client, "data.unreliable_recipient", http.MethodPost, "/1.0/unreliable-recipient", nil, listOf(recipients))
}

// Balance returns the account balance in kopecks.
func (d *Data) Balance(ctx context.Context) (Object, error) {
	return call[Object](ctx, d.client, "data.balance", http.MethodGet, "/1.0/counterpart/balance", nil, payload.Absent())
}

// TariffRequest holds the parameters of a tariff calculation. Nil fields are
// not sent. A zero Mass means 100 grams; empty MailCategory and MailType mean
// SIMPLE and POSTAL_PARCEL.
type TariffRequest struct {
	CompletenessChecking *bool
	Courier              *bool
	DeclaredValue        *int
	Height               *int
	Length               *int
	Width                *int
	EntriesType          *EntryType
	Fragile              *bool
	IndexFrom            *string
	IndexTo              *string
	MailCategory         MailCategory
	MailDirect           *int
	MailType             MailType
	Mass                 int
	NoticePaymentMethod  *PaymentType
	PaymentMethod        *PaymentType
	SMSNoticeRecipient   *int
	TransportType        *TransportType
	WithOrderOfNotice    bool
	WithSimpleNotice     bool
}

// Payload returns the wire representation.
func (r TariffRequest) Payload() payload.Object {
	mass := r.Mass
	if mass == 0 {
		mass = 100
	}
	category := r.MailCategory
	if category == "" {
		category = MailCategorySimple
	}
	mailType := r.MailType
	if mailType == "" {
		mailType = MailTypePostalParcel
	}

	return payload.Object{
		"completeness-checking": payload.Opt(r.CompletenessChecking),
		"courier":               payload.Opt(r.Courier),
		"declared-value":        payload.Opt(r.DeclaredValue),
		"dimension": payload.Object{
			"height": payload.Opt(r.Height),
			"length": payload.Opt(r.Length),
			"width":  payload.Opt(r.Width),
		}.Value(),
		"entries-type":          payload.Opt(r.EntriesType),
		"fragile":               payload.Opt(r.Fragile),
		"index-from":            payload.Opt(r.IndexFrom),
		"index-to":              payload.Opt(r.IndexTo),
		"mail-category":         payload.Scalar(category),
		"mail-direct":           payload.Opt(r.MailDirect),
		"mail-type":             payload.Scalar(mailType),
		"mass":                  payload.Scalar(mass),
		"notice-payment-method": payload.Opt(r.NoticePaymentMethod),
		"payment-method":        payload.Opt(r.PaymentMethod),
		"sms-notice-recipient":  payload.Opt(r.SMSNoticeRecipient),
		"transport-type":        payload.Opt(r.TransportType),
		"with-order-of-notice":  payload.Scalar(r.WithOrderOfNotice),
		"with-simple-notice":    payload.Scalar(r.WithSimpleNotice),
	}
}

// Tariff calculates the postage. The origin post office is taken from the
// account profile unless IndexFrom is set. Amounts are in kopecks.
func (d *Data) Tariff(ctx context.Context, req TariffRequest) (Object, error) {
	return call[Object](ctx, d.client, "data.tariff", http.MethodPost, "/1.0/tariff", nil, req.Payload().Value())
}
