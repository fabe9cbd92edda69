package pochta_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/pochta/pkg/pochta"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newHTTPTestClient(t *testing.T, handler http.HandlerFunc) *pochta.Client {
	t.Helper()
	return newHTTPTestClientWithTimeout(t, 5*time.Second, handler)
}

func newHTTPTestClientWithTimeout(t *testing.T, timeout time.Duration, handler http.HandlerFunc) *pochta.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api := pochta.NewHTTPAPIClient(pochta.HTTPAPIClientConfig{Timeout: timeout})
	t.Cleanup(func() { _ = api.Close() })

	return pochta.NewWithAPIClient(pochta.Config{
		Login:       "user",
		Password:    "secret",
		AccessToken: "token",
		BaseURL:     server.URL,
	}, api, otelzap.New(zap.NewNop()), nil)
}

func TestHTTPAPIClient_NotFound(t *testing.T) {
	client := newHTTPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"NOT_FOUND","desc":"batch 42 not found"}`)
	})

	_, err := client.Batches().Find(context.Background(), "42")

	var httpErr *pochta.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, http.MethodGet, httpErr.Method)
	assert.JSONEq(t, `{"code":"NOT_FOUND","desc":"batch 42 not found"}`, string(httpErr.Body))
	assert.True(t, pochta.IsStatus(err, http.StatusNotFound))
}

func TestHTTPAPIClient_SendsHeadersQueryAndBody(t *testing.T) {
	var (
		gotAuth, gotUserAuth, gotAccept string
		gotMethod, gotPath, gotQuery    string
		gotBody                         []byte
	)
	client := newHTTPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUserAuth = r.Header.Get("X-User-Authorization")
		gotAccept = r.Header.Get("Accept")
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"result-ids":[1,2]}`)
	})

	date := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	resp, err := client.Batches().Create(context.Background(), []string{"1", "2"}, &date)
	require.NoError(t, err)

	assert.Equal(t, "AccessToken token", gotAuth)
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("user:secret")), gotUserAuth)
	assert.Equal(t, "application/json;charset=UTF-8", gotAccept)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/1.0/user/shipment", gotPath)
	assert.Equal(t, "sending-date=2026-05-20", gotQuery)
	assert.JSONEq(t, `["1","2"]`, string(gotBody))
	assert.Equal(t, []any{float64(1), float64(2)}, resp["result-ids"])
}

func TestHTTPAPIClient_DeleteSendsBody(t *testing.T) {
	var gotMethod string
	var gotBody []byte
	client := newHTTPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := client.Orders().Delete(context.Background(), []string{"100", "200"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.JSONEq(t, `["100","200"]`, string(gotBody))
}

func TestHTTPAPIClient_StreamsDocuments(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake form")
	client := newHTTPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1.0/forms/42/f103pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	})

	resp, err := client.Documents().F103(context.Background(), "42")
	require.NoError(t, err)
	defer resp.Close()

	assert.Nil(t, resp.Body)
	require.NotNil(t, resp.Stream)
	got, err := io.ReadAll(resp.Stream)
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestHTTPAPIClient_StreamOutlivesTimeout(t *testing.T) {
	const chunks = 6
	client := newHTTPTestClientWithTimeout(t, 300*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		for i := 0; i < chunks; i++ {
			_, _ = io.WriteString(w, "chunk")
			flusher.Flush()
			time.Sleep(100 * time.Millisecond)
		}
	})

	resp, err := client.Documents().AllDocs(context.Background(), "42")
	require.NoError(t, err)
	defer resp.Close()

	got, err := io.ReadAll(resp.Stream)
	require.NoError(t, err)
	assert.Len(t, got, chunks*len("chunk"))
}

func TestHTTPAPIClient_BufferedRequestTimesOut(t *testing.T) {
	client := newHTTPTestClientWithTimeout(t, 100*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := client.Settings().User(context.Background())

	assert.Error(t, err)
}

func TestHTTPAPIClient_SettlementOffices(t *testing.T) {
	client := newHTTPTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Ekaterinburg", r.URL.Query().Get("settlement"))
		assert.Empty(t, r.URL.Query().Get("district"))
		_, _ = io.WriteString(w, `["620000","620014"]`)
	})

	codes, err := client.PostOffices().SettlementOffices(context.Background(), "Ekaterinburg", "Sverdlovskaya", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"620000", "620014"}, codes)
}
