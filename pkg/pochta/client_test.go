package pochta_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/pochta/pkg/pochta"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockClient *pochta.MockAPIClient) *pochta.Client {
	logger := otelzap.New(zap.NewNop())
	return pochta.NewWithAPIClient(
		pochta.Config{
			Login:       "user",
			Password:    "secret",
			AccessToken: "token",
		},
		mockClient,
		logger,
		nil,
	)
}

type recordedCall struct {
	operation string
	status    string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *fakeRecorder) RecordRequest(operation, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{operation: operation, status: status})
}

func TestClient_Tariff_DefaultsOnly(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	client := newTestClient(mockAPI)

	resp, err := client.Data().Tariff(context.Background(), pochta.TariffRequest{Mass: 100})
	require.NoError(t, err)
	assert.Equal(t, float64(24800), resp["total-rate"])

	reqs := mockAPI.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/1.0/tariff", reqs[0].Path)
	assert.JSONEq(t, `{
		"mass": 100,
		"mail-category": "SIMPLE",
		"mail-type": "POSTAL_PARCEL",
		"with-order-of-notice": false,
		"with-simple-notice": false,
		"dimension": {}
	}`, string(reqs[0].Body))
}

func TestClient_Tariff_ZeroMassMeans100Grams(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	client := newTestClient(mockAPI)

	_, err := client.Data().Tariff(context.Background(), pochta.TariffRequest{
		Height:   pochta.Ptr(10),
		IndexTo:  pochta.Ptr("190000"),
		MailType: pochta.MailTypeOnlineParcel,
	})
	require.NoError(t, err)

	reqs := mockAPI.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{
		"mass": 100,
		"mail-category": "SIMPLE",
		"mail-type": "ONLINE_PARCEL",
		"index-to": "190000",
		"with-order-of-notice": false,
		"with-simple-notice": false,
		"dimension": {"height": 10}
	}`, string(reqs[0].Body))
}

func TestClient_AuthHeaders(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	client := newTestClient(mockAPI)

	_, err := client.Settings().User(context.Background())
	require.NoError(t, err)

	reqs := mockAPI.Requests()
	require.Len(t, reqs, 1)
	h := reqs[0].Header
	assert.Equal(t, "AccessToken token", h.Get("Authorization"))
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("user:secret")), h.Get("X-User-Authorization"))
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "https://otpravka-api.pochta.ru/1.0/settings", reqs[0].URL)
	assert.Nil(t, reqs[0].Body)
}

func TestClient_Nearby_YandexAddressWithoutGeoObject(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	client := newTestClient(mockAPI)

	_, err := client.PostOffices().Nearby(context.Background(), pochta.NearbyRequest{
		Latitude:      59.93,
		Longitude:     30.31,
		YandexAddress: pochta.Ptr("Saint Petersburg, Pobedy st 15k1"),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, pochta.ErrInvalidArgument))
	assert.Empty(t, mockAPI.Requests(), "validation must fail before any request")
}

func TestClient_Nearby_Validation(t *testing.T) {
	tests := []struct {
		name    string
		address *string
		geo     *string
		wantErr bool
	}{
		{name: "neither", wantErr: false},
		{name: "geo without address", geo: pochta.Ptr(`{}`), wantErr: true},
		{name: "invalid geo json", address: pochta.Ptr("Moscow"), geo: pochta.Ptr(`{"type":`), wantErr: true},
		{name: "both valid", address: pochta.Ptr("Moscow"), geo: pochta.Ptr(`{"type":"Feature"}`), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := pochta.NewMockAPIClient()
			client := newTestClient(mockAPI)

			_, err := client.PostOffices().Nearby(context.Background(), pochta.NearbyRequest{
				Latitude:      55.75,
				Longitude:     37.62,
				YandexAddress: tt.address,
				GeoObject:     tt.geo,
			})

			if tt.wantErr {
				assert.ErrorIs(t, err, pochta.ErrInvalidArgument)
				assert.Empty(t, mockAPI.Requests())
			} else {
				assert.NoError(t, err)
				assert.Len(t, mockAPI.Requests(), 1)
			}
		})
	}
}

func TestClient_Nearby_QueryDefaults(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	client := newTestClient(mockAPI)

	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	_, err := client.PostOffices().Nearby(context.Background(), pochta.NearbyRequest{
		Latitude:        59.93,
		Longitude:       30.31,
		CurrentDateTime: &now,
	})
	require.NoError(t, err)

	q := mockAPI.Requests()[0].Query
	assert.Equal(t, "59.93", q.Get("latitude"))
	assert.Equal(t, "30.31", q.Get("longitude"))
	assert.Equal(t, "ALL", q.Get("filter"))
	assert.Equal(t, "false", q.Get("hide-private"))
	assert.Equal(t, "true", q.Get("filter-by-office-type"))
	assert.Equal(t, "2026-03-01T09:30:00", q.Get("current-date-time"))
	assert.NotContains(t, q, "top")
	assert.NotContains(t, q, "search-radius")
	assert.NotContains(t, q, "yandex-address")
}

func TestClient_MethodsAndPaths(t *testing.T) {
	ctx := context.Background()
	order := pochta.NewOrder(100, "A-1", false)

	tests := []struct {
		name   string
		call   func(c *pochta.Client) error
		method string
		path   string
	}{
		{"orders.create", func(c *pochta.Client) error {
			_, err := c.Orders().Create(ctx, []*pochta.Order{order})
			return err
		}, http.MethodPut, "/1.0/user/backlog"},
		{"orders.delete", func(c *pochta.Client) error {
			_, err := c.Orders().Delete(ctx, []string{"1"})
			return err
		}, http.MethodDelete, "/1.0/backlog"},
		{"orders.return_to_backlog", func(c *pochta.Client) error {
			_, err := c.Orders().ReturnToBacklog(ctx, []string{"1"})
			return err
		}, http.MethodPost, "/1.0/user/backlog"},
		{"batches.add_orders", func(c *pochta.Client) error {
			_, err := c.Batches().AddOrders(ctx, "42", []*pochta.Order{order})
			return err
		}, http.MethodPut, "/1.0/batch/42/shipment"},
		{"batches.delete_orders", func(c *pochta.Client) error {
			_, err := c.Batches().DeleteOrders(ctx, []string{"7"})
			return err
		}, http.MethodDelete, "/1.0/shipment"},
		{"batches.change_sending_date", func(c *pochta.Client) error {
			_, err := c.Batches().ChangeSendingDate(ctx, "42", 2026, 3, 5)
			return err
		}, http.MethodPost, "/1.0/batch/42/sending/2026/3/5"},
		{"documents.checkin", func(c *pochta.Client) error {
			_, err := c.Documents().Checkin(ctx, "42")
			return err
		}, http.MethodGet, "/1.0/batch/42/checkin"},
		{"archive.archive", func(c *pochta.Client) error {
			_, err := c.Archive().Archive(ctx, []string{"42"})
			return err
		}, http.MethodPut, "/1.0/archive"},
		{"archive.revert", func(c *pochta.Client) error {
			_, err := c.Archive().Revert(ctx, []string{"42"})
			return err
		}, http.MethodPost, "/1.0/archive/revert"},
		{"postoffice.service_group", func(c *pochta.Client) error {
			_, err := c.PostOffices().ServiceGroup(ctx, "101000", "cyberpost")
			return err
		}, http.MethodGet, "/postoffice/1.0/101000/services/cyberpost"},
		{"orders.edit", func(c *pochta.Client) error {
			_, err := c.Orders().Edit(ctx, "9", order)
			return err
		}, http.MethodPut, "/1.0/backlog/9"},
		{"orders.search", func(c *pochta.Client) error {
			_, err := c.Orders().Search(ctx, "A-1")
			return err
		}, http.MethodGet, "/1.0/backlog/search"},
		{"orders.by_id", func(c *pochta.Client) error {
			_, err := c.Orders().ByID(ctx, "9")
			return err
		}, http.MethodGet, "/1.0/backlog/9"},
		{"batches.move_orders", func(c *pochta.Client) error {
			_, err := c.Batches().MoveOrders(ctx, "42", []string{"9"})
			return err
		}, http.MethodPost, "/1.0/batch/42/shipment"},
		{"batches.find", func(c *pochta.Client) error {
			_, err := c.Batches().Find(ctx, "42")
			return err
		}, http.MethodGet, "/1.0/batch/42"},
		{"batches.find_orders", func(c *pochta.Client) error {
			_, err := c.Batches().FindOrdersWithBarcode(ctx, "80102030405060")
			return err
		}, http.MethodGet, "/1.0/shipment/search"},
		{"batches.orders", func(c *pochta.Client) error {
			_, err := c.Batches().Orders(ctx, "42", pochta.Page{})
			return err
		}, http.MethodGet, "/1.0/batch/42/shipment"},
		{"batches.order_by_id", func(c *pochta.Client) error {
			_, err := c.Batches().OrderByID(ctx, "7")
			return err
		}, http.MethodGet, "/1.0/shipment/7"},
		{"archive.batches", func(c *pochta.Client) error {
			_, err := c.Archive().Batches(ctx)
			return err
		}, http.MethodGet, "/1.0/archive"},
		{"lta.search_shipments", func(c *pochta.Client) error {
			_, err := c.LongTermArchive().SearchShipments(ctx, "80102030405060")
			return err
		}, http.MethodGet, "/1.0/long-term-archive/shipment/search"},
		{"data.unreliable_recipient", func(c *pochta.Client) error {
			_, err := c.Data().UnreliableRecipients(ctx, []pochta.Recipient{
				pochta.NewRecipient("Москва, ул. Тверская, 1", "Иванов Иван", "+79001234567"),
			})
			return err
		}, http.MethodPost, "/1.0/unreliable-recipient"},
		{"data.balance", func(c *pochta.Client) error {
			_, err := c.Data().Balance(ctx)
			return err
		}, http.MethodGet, "/1.0/counterpart/balance"},
		{"postoffice.get", func(c *pochta.Client) error {
			_, err := c.PostOffices().Get(ctx, "101000")
			return err
		}, http.MethodGet, "/postoffice/1.0/101000"},
		{"postoffice.services", func(c *pochta.Client) error {
			_, err := c.PostOffices().Services(ctx, "101000")
			return err
		}, http.MethodGet, "/postoffice/1.0/101000/services"},
		{"settings.shipping_points", func(c *pochta.Client) error {
			_, err := c.Settings().ShippingPoints(ctx)
			return err
		}, http.MethodGet, "/1.0/user-shipping-points"},
		{"settings.user", func(c *pochta.Client) error {
			_, err := c.Settings().User(ctx)
			return err
		}, http.MethodGet, "/1.0/settings"},
		{"documents.forms_backlog", func(c *pochta.Client) error {
			res, err := c.Documents().FormsBacklog(ctx, "9", nil)
			if err == nil {
				res.Close()
			}
			return err
		}, http.MethodGet, "/1.0/forms/backlog/9/forms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := pochta.NewMockAPIClient()
			client := newTestClient(mockAPI)

			require.NoError(t, tt.call(client))

			reqs := mockAPI.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, tt.method, reqs[0].Method)
			assert.Equal(t, tt.path, reqs[0].Path)
			assert.Equal(t, tt.name, reqs[0].Operation)
		})
	}
}

func TestClient_Batches_FirstPageIsSent(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	client := newTestClient(mockAPI)

	_, err := client.Batches().Orders(context.Background(), "42",
		pochta.Page{Sort: "desc", Size: pochta.Ptr(0), Page: pochta.Ptr(0)},
	)
	require.NoError(t, err)

	q := mockAPI.Requests()[0].Query
	assert.Equal(t, "desc", q.Get("sort"))
	require.Contains(t, q, "page")
	assert.Equal(t, "0", q.Get("page"))
	require.Contains(t, q, "size")
	assert.Equal(t, "0", q.Get("size"))
}

func TestClient_Batches_QueryOmitsUnset(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	client := newTestClient(mockAPI)

	_, err := client.Batches().SearchAll(context.Background(),
		pochta.BatchFilter{MailType: pochta.MailTypeEMS},
		pochta.Page{Size: pochta.Ptr(50)},
	)
	require.NoError(t, err)

	q := mockAPI.Requests()[0].Query
	assert.Equal(t, "EMS", q.Get("mailType"))
	assert.Equal(t, "asc", q.Get("sort"))
	assert.Equal(t, "50", q.Get("size"))
	assert.NotContains(t, q, "mailCategory")
	assert.NotContains(t, q, "page")
}

func TestClient_Batches_CreateSendingDate(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	client := newTestClient(mockAPI)
	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	_, err := client.Batches().Create(context.Background(), []string{"1", "2"}, &date)
	require.NoError(t, err)

	req := mockAPI.Requests()[0]
	assert.Equal(t, "2026-04-02", req.Query.Get("sending-date"))
	assert.JSONEq(t, `["1","2"]`, string(req.Body))
}

func TestClient_NormalizeAddresses_SendsIDs(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	addresses := []pochta.Address{
		pochta.NewAddress("Moscow, Tverskaya 1"),
		pochta.NewAddress("Kazan, Baumana 2"),
	}
	mockAPI.OnDo = func(ctx context.Context, req *pochta.Request) (*pochta.Response, error) {
		// Results come back in reverse order.
		return pochta.JSONResponse(`[
			{"id":"` + addresses[1].ID + `","place":"Kazan"},
			{"id":"` + addresses[0].ID + `","place":"Moscow"}
		]`), nil
	}
	client := newTestClient(mockAPI)

	results, err := client.Data().NormalizeAddresses(context.Background(), addresses)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[any]string{}
	for _, r := range results {
		byID[r["id"]] = r["place"].(string)
	}
	assert.Equal(t, "Moscow", byID[addresses[0].ID])
	assert.Equal(t, "Kazan", byID[addresses[1].ID])
	assert.Contains(t, string(mockAPI.Requests()[0].Body), addresses[0].ID)
}

func TestClient_APIError(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	recorder := &fakeRecorder{}

	client := pochta.NewWithAPIClient(pochta.Config{Metrics: recorder}, mockAPI, nil, nil)

	_, err := client.Data().Balance(context.Background())

	var httpErr *pochta.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Contains(t, string(httpErr.Body), "MOCK_ERROR")
	assert.True(t, pochta.IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, []recordedCall{{operation: "data.balance", status: "500"}}, recorder.calls)
}

func TestClient_RecordsSuccess(t *testing.T) {
	recorder := &fakeRecorder{}
	client := pochta.NewWithAPIClient(pochta.Config{Metrics: recorder}, pochta.NewMockAPIClient(), nil, nil)

	_, err := client.Settings().ShippingPoints(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []recordedCall{{operation: "settings.shipping_points", status: "200"}}, recorder.calls)
}

func TestClient_Documents_Stream(t *testing.T) {
	mockAPI := pochta.NewMockAPIClient()
	client := newTestClient(mockAPI)

	resp, err := client.Documents().F7F22(context.Background(), "123", pochta.FormOptions{
		PrintType: pochta.Ptr(pochta.PrintThermo),
	})
	require.NoError(t, err)
	defer resp.Close()

	req := mockAPI.Requests()[0]
	assert.True(t, req.Stream)
	assert.Equal(t, "/1.0/forms/123/f7pdf", req.Path)
	assert.Equal(t, "THERMO", req.Query.Get("print-type"))
	assert.NotContains(t, req.Query, "sending-date")
	assert.NotNil(t, resp.Stream)
}
