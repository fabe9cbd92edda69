package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnOperationHistory  func(ctx context.Context, barcode string) ([]HistoryRecord, error)
	OnPostalOrderEvents func(ctx context.Context, barcode string) ([]PostalOrderEvent, error)
	OnTicket            func(ctx context.Context, barcodes []string) (string, error)
	OnResponseByTicket  func(ctx context.Context, ticket string) ([]TicketItem, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

func (m *MockAPIClient) simulate() error {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return &APIError{Code: "MOCK_ERROR", Message: "Simulated API error"}
	}
	return nil
}

// OperationHistory returns a mock two-step history: accepted, then delivered.
func (m *MockAPIClient) OperationHistory(ctx context.Context, barcode string) ([]HistoryRecord, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnOperationHistory != nil {
		return m.OnOperationHistory(ctx, barcode)
	}

	now := time.Now()
	return []HistoryRecord{
		mockRecord(barcode, now.AddDate(0, 0, -3), Classifier{ID: 1, Name: "Приём"}, "101000"),
		mockRecord(barcode, now, Classifier{ID: 2, Name: "Вручение"}, "190000"),
	}, nil
}

func mockRecord(barcode string, at time.Time, oper Classifier, index string) HistoryRecord {
	return HistoryRecord{
		Address: AddressParameters{
			DestinationAddress: PostalAddress{Index: "190000", Description: "Санкт-Петербург"},
			OperationAddress:   PostalAddress{Index: index},
			MailDirect:         Country{ID: 643, Code2A: "RU", Code3A: "RUS", NameRU: "Российская Федерация"},
		},
		Item: ItemParameters{
			Barcode:     barcode,
			ValidRuType: true,
			MailType:    Classifier{ID: 4, Name: "Посылка"},
			MailCtg:     Classifier{ID: 1, Name: "Заказное"},
			Mass:        1200,
		},
		Operation: OperationParameters{
			OperType: oper,
			OperAttr: Classifier{ID: 1},
			OperDate: at.Format(time.RFC3339),
		},
	}
}

// PostalOrderEvents returns a single mock money order event.
func (m *MockAPIClient) PostalOrderEvents(ctx context.Context, barcode string) ([]PostalOrderEvent, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnPostalOrderEvents != nil {
		return m.OnPostalOrderEvents(ctx, barcode)
	}

	return []PostalOrderEvent{
		{
			Number:            "00001",
			EventDateTime:     time.Now().Format(time.RFC3339),
			EventType:         1,
			EventName:         "Прием",
			IndexEvent:        "190000",
			SumPaymentForward: 150000,
		},
	}, nil
}

// Ticket returns a random mock ticket.
func (m *MockAPIClient) Ticket(ctx context.Context, barcodes []string) (string, error) {
	if err := m.simulate(); err != nil {
		return "", err
	}
	if m.OnTicket != nil {
		return m.OnTicket(ctx, barcodes)
	}

	return fmt.Sprintf("%s-%s", time.Now().Format("20060102150405"), uuid.NewString()[:8]), nil
}

// ResponseByTicket returns an empty mock answer.
func (m *MockAPIClient) ResponseByTicket(ctx context.Context, ticket string) ([]TicketItem, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnResponseByTicket != nil {
		return m.OnResponseByTicket(ctx, ticket)
	}

	return []TicketItem{}, nil
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
