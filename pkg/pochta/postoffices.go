package pochta

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tournevent/pochta/pkg/pochta/payload"
)

const localDateTimeLayout = "2006-01-02T15:04:05"

// PostOffices looks up post offices.
type PostOffices struct {
	client *Client
}

// NewPostOffices returns the post office lookup facade of c.
func NewPostOffices(c *Client) *PostOffices {
	return &PostOffices{client: c}
}

// Get returns the post office with the given index.
func (p *PostOffices) Get(ctx context.Context, index string) (Object, error) {
	q := payload.Object{"ufps-postal-code": payload.Scalar(true)}
	return call[Object](ctx, p.client, "postoffice.get", http.MethodGet, "/postoffice/1.0/"+index, q, payload.Absent())
}

// ByAddress finds the post offices serving an address, most relevant first.
// A top of zero or less means 3.
func (p *PostOffices) ByAddress(ctx context.Context, address string, top int) (Object, error) {
	if top <= 0 {
		top = 3
	}
	q := payload.Object{
		"address": payload.Scalar(address),
		"top":     payload.Scalar(top),
	}
	return call[Object](ctx, p.client, "postoffice.by_address", http.MethodGet, "/postoffice/1.0/by-address", q, payload.Absent())
}

// Services lists the services of a post office.
func (p *PostOffices) Services(ctx context.Context, index string) ([]Object, error) {
	return call[[]Object](ctx, p.client, "postoffice.services", http.MethodGet, "/postoffice/1.0/"+index+"/services", nil, payload.Absent())
}

// ServiceGroup lists the services of a post office within one service group.
func (p *PostOffices) ServiceGroup(ctx context.Context, index, group string) ([]Object, error) {
	path := "/postoffice/1.0/" + index + "/services/" + group
	return call[[]Object](ctx, p.client, "postoffice.service_group", http.MethodGet, path, nil, payload.Absent())
}

// NearbyRequest holds the parameters of a search by coordinates.
type NearbyRequest struct {
	Latitude  float64
	Longitude float64
	Top       *int
	// Filter defaults to ALL.
	Filter       PostofficeWorkType
	SearchRadius *float64 // kilometres
	// CurrentDateTime is the client's local time. It is required to find
	// offices open right now.
	CurrentDateTime *time.Time
	HidePrivate     bool
	// FilterByOfficeType limits results to regular offices and parcel
	// terminals. Nil means true.
	FilterByOfficeType *bool
	// YandexAddress and GeoObject come from the Yandex geocoder and must be
	// given together. GeoObject must be a JSON document.
	YandexAddress *string
	GeoObject     *string
}

func (r NearbyRequest) validate() error {
	hasAddress := r.YandexAddress != nil && *r.YandexAddress != ""
	hasGeo := r.GeoObject != nil && *r.GeoObject != ""
	switch {
	case hasAddress && !hasGeo:
		return invalidArgument("yandex address requires a geo object")
	case hasGeo && !hasAddress:
		return invalidArgument("geo object requires a yandex address")
	case hasGeo && !json.Valid([]byte(*r.GeoObject)):
		return invalidArgument("geo object must be valid JSON")
	}
	return nil
}

func (r NearbyRequest) query() payload.Object {
	filter := r.Filter
	if filter == "" {
		filter = WorkAll
	}
	byOfficeType := true
	if r.FilterByOfficeType != nil {
		byOfficeType = *r.FilterByOfficeType
	}
	current := payload.Absent()
	if r.CurrentDateTime != nil {
		current = payload.Scalar(r.CurrentDateTime.Format(localDateTimeLayout))
	}

	return payload.Object{
		"latitude":              payload.Scalar(r.Latitude),
		"longitude":             payload.Scalar(r.Longitude),
		"top":                   payload.Opt(r.Top),
		"filter":                payload.Scalar(filter),
		"search-radius":         payload.Opt(r.SearchRadius),
		"current-date-time":     current,
		"hide-private":          payload.Scalar(r.HidePrivate),
		"filter-by-office-type": payload.Scalar(byOfficeType),
		"yandex-address":        payload.Opt(r.YandexAddress),
		"geo-object":            payload.Opt(r.GeoObject),
	}
}

// Nearby finds post offices near the given coordinates. Inconsistent Yandex
// parameters are rejected with ErrInvalidArgument before any request is sent.
func (p *PostOffices) Nearby(ctx context.Context, req NearbyRequest) ([]Object, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	return call[[]Object](ctx, p.client, "postoffice.nearby", http.MethodGet, "/postoffice/1.0/nearby", req.query(), payload.Absent())
}

// SettlementOffices lists the post office indexes of a settlement. Region and
// district may be empty.
func (p *PostOffices) SettlementOffices(ctx context.Context, settlement, region, district string) ([]string, error) {
	q := payload.Object{"settlement": payload.Scalar(settlement)}
	if region != "" {
		q["region"] = payload.Scalar(region)
	}
	if district != "" {
		q["district"] = payload.Scalar(district)
	}
	return call[[]string](ctx, p.client, "postoffice.settlement_offices", http.MethodGet, "/postoffice/1.0/settlement.offices.codes", q, payload.Absent())
}
