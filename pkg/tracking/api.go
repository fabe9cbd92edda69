package tracking

import (
	"context"
	"fmt"
	"time"
)

// Service endpoints.
const (
	DefaultSingleURL = "https://tracking.russianpost.ru/rtm34"
	DefaultBatchURL  = "https://tracking.russianpost.ru/fc"
)

// Limits of the batch protocol, enforced by the remote service.
const (
	// MaxTicketBarcodes is the largest number of barcodes one ticket may cover.
	MaxTicketBarcodes = 3000
	// TicketPollInterval is the minimum delay before asking for a ticket's
	// answer, and between repeated asks.
	TicketPollInterval = 15 * time.Minute
	// TicketRetention is how long the service keeps a ticket's answer.
	TicketRetention = 32 * time.Hour
)

// APIClient defines the interface for the Russian Post tracking service.
// Implementations: SOAPAPIClient (production), MockAPIClient (testing).
type APIClient interface {
	// OperationHistory returns every operation registered for a barcode.
	OperationHistory(ctx context.Context, barcode string) ([]HistoryRecord, error)

	// PostalOrderEvents returns the cash-on-delivery money order events of a
	// postal item.
	PostalOrderEvents(ctx context.Context, barcode string) ([]PostalOrderEvent, error)

	// Ticket asks the batch service to prepare the history of barcodes and
	// returns the ticket to collect it with.
	Ticket(ctx context.Context, barcodes []string) (string, error)

	// ResponseByTicket collects the answer prepared for a ticket.
	ResponseByTicket(ctx context.Context, ticket string) ([]TicketItem, error)
}

// ============================================================================
// Single tracking types
// ============================================================================

// Classifier is an id/name pair from the service's reference tables.
type Classifier struct {
	ID   int    `xml:"Id" json:"id"`
	Name string `xml:"Name" json:"name,omitempty"`
}

// Country identifies a country in several encodings.
type Country struct {
	ID     int    `xml:"Id" json:"id"`
	Code2A string `xml:"Code2A" json:"code2a,omitempty"`
	Code3A string `xml:"Code3A" json:"code3a,omitempty"`
	NameRU string `xml:"NameRU" json:"name_ru,omitempty"`
	NameEN string `xml:"NameEN" json:"name_en,omitempty"`
}

// PostalAddress is a post office index with its description.
type PostalAddress struct {
	Index       string `xml:"Index" json:"index,omitempty"`
	Description string `xml:"Description" json:"description,omitempty"`
}

// AddressParameters describe where an operation happened.
type AddressParameters struct {
	DestinationAddress PostalAddress `xml:"DestinationAddress" json:"destination_address"`
	OperationAddress   PostalAddress `xml:"OperationAddress" json:"operation_address"`
	MailDirect         Country       `xml:"MailDirect" json:"mail_direct"`
	CountryFrom        Country       `xml:"CountryFrom" json:"country_from"`
	CountryOper        Country       `xml:"CountryOper" json:"country_oper"`
}

// FinanceParameters hold the amounts attached to an item, in kopecks.
type FinanceParameters struct {
	Payment    int64 `xml:"Payment" json:"payment"`
	Value      int64 `xml:"Value" json:"value"`
	MassRate   int64 `xml:"MassRate" json:"mass_rate"`
	InsrRate   int64 `xml:"InsrRate" json:"insr_rate"`
	AirRate    int64 `xml:"AirRate" json:"air_rate"`
	Rate       int64 `xml:"Rate" json:"rate"`
	CustomDuty int64 `xml:"CustomDuty" json:"custom_duty"`
}

// ItemParameters describe the postal item itself.
type ItemParameters struct {
	Barcode         string     `xml:"Barcode" json:"barcode"`
	Internum        string     `xml:"Internum" json:"internum,omitempty"`
	ValidRuType     bool       `xml:"ValidRuType" json:"valid_ru_type"`
	ValidEnType     bool       `xml:"ValidEnType" json:"valid_en_type"`
	ComplexItemName string     `xml:"ComplexItemName" json:"complex_item_name,omitempty"`
	MailRank        Classifier `xml:"MailRank" json:"mail_rank"`
	PostMark        Classifier `xml:"PostMark" json:"post_mark"`
	MailType        Classifier `xml:"MailType" json:"mail_type"`
	MailCtg         Classifier `xml:"MailCtg" json:"mail_ctg"`
	Mass            int        `xml:"Mass" json:"mass"`
	MaxMassRu       int        `xml:"MaxMassRu" json:"max_mass_ru"`
	MaxMassEn       int        `xml:"MaxMassEn" json:"max_mass_en"`
}

// OperationParameters describe the operation. OperDate is an xsd:dateTime.
type OperationParameters struct {
	OperType Classifier `xml:"OperType" json:"oper_type"`
	OperAttr Classifier `xml:"OperAttr" json:"oper_attr"`
	OperDate string     `xml:"OperDate" json:"oper_date"`
}

// UserParameters describe the sender and the recipient.
type UserParameters struct {
	SendCtg Classifier `xml:"SendCtg" json:"send_ctg"`
	Sndr    string     `xml:"Sndr" json:"sender,omitempty"`
	Rcpn    string     `xml:"Rcpn" json:"recipient,omitempty"`
}

// HistoryRecord is one operation on a postal item.
type HistoryRecord struct {
	Address   AddressParameters   `xml:"AddressParameters" json:"address"`
	Finance   FinanceParameters   `xml:"FinanceParameters" json:"finance"`
	Item      ItemParameters      `xml:"ItemParameters" json:"item"`
	Operation OperationParameters `xml:"OperationParameters" json:"operation"`
	User      UserParameters      `xml:"UserParameters" json:"user"`
}

// PostalOrderEvent is one event of a cash-on-delivery money order.
type PostalOrderEvent struct {
	Number            string `xml:"Number,attr" json:"number"`
	EventDateTime     string `xml:"EventDateTime,attr" json:"event_date_time"`
	EventType         int    `xml:"EventType,attr" json:"event_type"`
	EventName         string `xml:"EventName,attr" json:"event_name"`
	IndexTo           string `xml:"IndexTo,attr" json:"index_to,omitempty"`
	IndexEvent        string `xml:"IndexEvent,attr" json:"index_event,omitempty"`
	SumPaymentForward int64  `xml:"SumPaymentForward,attr" json:"sum_payment_forward"`
	CountryEventCode  string `xml:"CountryEventCode,attr" json:"country_event_code,omitempty"`
	CountryToCode     string `xml:"CountryToCode,attr" json:"country_to_code,omitempty"`
}

// ============================================================================
// Batch tracking types
// ============================================================================

// TicketItem is the answer for one barcode of a ticket. Error is set instead
// of Operations when the service could not process the barcode.
type TicketItem struct {
	Barcode    string            `xml:"Barcode,attr" json:"barcode"`
	Operations []TicketOperation `xml:"Operation" json:"operations,omitempty"`
	Error      *TicketError      `xml:"Error" json:"error,omitempty"`
}

// TicketOperation is one operation on a postal item in a ticket answer.
type TicketOperation struct {
	OperTypeID int    `xml:"OperTypeID,attr" json:"oper_type_id"`
	OperCtgID  int    `xml:"OperCtgID,attr" json:"oper_ctg_id"`
	OperName   string `xml:"OperName,attr" json:"oper_name"`
	DateOper   string `xml:"DateOper,attr" json:"date_oper"`
	IndexOper  string `xml:"IndexOper,attr" json:"index_oper,omitempty"`
}

// TicketError is an error reported by the batch service, either for the
// whole request or for one barcode.
type TicketError struct {
	ErrorTypeID int    `xml:"ErrorTypeID,attr" json:"error_type_id"`
	ErrorName   string `xml:"ErrorName,attr" json:"error_name"`
}

// ============================================================================
// Errors
// ============================================================================

// APIError represents an error reported by the tracking service: the error
// field of a batch response, a SOAP fault, or a non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

func (e *TicketError) apiError() *APIError {
	return &APIError{
		Code:    fmt.Sprintf("%d", e.ErrorTypeID),
		Message: e.ErrorName,
	}
}
