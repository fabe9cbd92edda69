package tracking

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/beevik/etree"
	"resty.dev/v3"
)

const (
	soap11NS = "http://schemas.xmlsoap.org/soap/envelope/"
	soap12NS = "http://www.w3.org/2003/05/soap-envelope"

	operNS = "http://russianpost.org/operationhistory"
	dataNS = "http://russianpost.org/operationhistory/data"

	postserverNS = "http://fclient.russianpost.org/postserver"
	fclientNS    = "http://fclient.russianpost.org"

	language = "RUS"
)

// SOAPAPIClient is the production implementation of APIClient. Single
// tracking talks SOAP 1.2 to the rtm34 endpoint, batch tracking talks SOAP 1.1
// to the fc endpoint.
type SOAPAPIClient struct {
	singleURL string
	batchURL  string
	login     string
	password  string
	client    *resty.Client
}

// SOAPAPIClientConfig holds configuration for the SOAP client.
type SOAPAPIClientConfig struct {
	SingleURL string
	BatchURL  string
	Login     string
	Password  string
	Timeout   time.Duration
}

// NewSOAPAPIClient creates a new SOAP-based API client for production use.
func NewSOAPAPIClient(cfg SOAPAPIClientConfig) *SOAPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	singleURL := cfg.SingleURL
	if singleURL == "" {
		singleURL = DefaultSingleURL
	}
	batchURL := cfg.BatchURL
	if batchURL == "" {
		batchURL = DefaultBatchURL
	}

	return &SOAPAPIClient{
		singleURL: singleURL,
		batchURL:  batchURL,
		login:     cfg.Login,
		password:  cfg.Password,
		client:    resty.New().SetTimeout(timeout),
	}
}

// OperationHistory calls getOperationHistory.
func (c *SOAPAPIClient) OperationHistory(ctx context.Context, barcode string) ([]HistoryRecord, error) {
	body, err := c.buildHistoryRequest(barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	env, err := c.doSOAPRequest(ctx, c.singleURL, soap12ContentType("getOperationHistory"), body)
	if err != nil {
		return nil, err
	}
	if env.Body.History == nil {
		return nil, errMissing("getOperationHistoryResponse")
	}
	return env.Body.History.Records, nil
}

// PostalOrderEvents calls PostalOrderEventsForMail.
func (c *SOAPAPIClient) PostalOrderEvents(ctx context.Context, barcode string) ([]PostalOrderEvent, error) {
	body, err := c.buildPostalOrderEventsRequest(barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	env, err := c.doSOAPRequest(ctx, c.singleURL, soap12ContentType("PostalOrderEventsForMail"), body)
	if err != nil {
		return nil, err
	}
	if env.Body.Events == nil {
		return nil, errMissing("PostalOrderEventsForMailResponse")
	}
	return env.Body.Events.Events, nil
}

// Ticket calls getTicket.
func (c *SOAPAPIClient) Ticket(ctx context.Context, barcodes []string) (string, error) {
	body, err := c.buildTicketRequest(barcodes)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	env, err := c.doSOAPRequest(ctx, c.batchURL, "text/xml; charset=utf-8", body)
	if err != nil {
		return "", err
	}
	resp := env.Body.Ticket
	if resp == nil {
		return "", errMissing("ticketResponse")
	}
	if resp.Error != nil {
		return "", resp.Error.apiError()
	}
	return resp.Value, nil
}

// ResponseByTicket calls getResponseByTicket.
func (c *SOAPAPIClient) ResponseByTicket(ctx context.Context, ticket string) ([]TicketItem, error) {
	body, err := c.buildAnswerRequest(ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	env, err := c.doSOAPRequest(ctx, c.batchURL, "text/xml; charset=utf-8", body)
	if err != nil {
		return nil, err
	}
	resp := env.Body.Answer
	if resp == nil {
		return nil, errMissing("answerByTicketResponse")
	}
	if resp.Error != nil {
		return nil, resp.Error.apiError()
	}
	return resp.Items, nil
}

// Close releases idle connections held by the underlying client.
func (c *SOAPAPIClient) Close() error {
	return c.client.Close()
}

// ============================================================================
// SOAP Request Helpers
// ============================================================================

func soap12ContentType(action string) string {
	return fmt.Sprintf(`application/soap+xml; charset=utf-8; action="%s"`, action)
}

// doSOAPRequest posts an envelope and decodes the response envelope. Faults
// and non-2xx responses are returned as *APIError.
func (c *SOAPAPIClient) doSOAPRequest(ctx context.Context, endpoint, contentType string, body []byte) (*soapEnvelope, error) {
	res, err := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		if res != nil && res.Body != nil {
			res.Body.Close()
		}
		return nil, fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, parseSOAPError(res.StatusCode(), data)
	}

	var env soapEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if env.Body.Fault != nil {
		return nil, env.Body.Fault.apiError()
	}
	return &env, nil
}

func errMissing(element string) error {
	return &APIError{Code: "EMPTY_RESPONSE", Message: "response has no " + element}
}

// ============================================================================
// SOAP Request Builders
// ============================================================================

// newSingleEnvelope starts a SOAP 1.2 envelope for the rtm34 service and
// returns the document and its Body element.
func newSingleEnvelope() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soap:Envelope")
	env.CreateAttr("xmlns:soap", soap12NS)
	env.CreateAttr("xmlns:oper", operNS)
	env.CreateAttr("xmlns:data", dataNS)

	env.CreateElement("soap:Header")
	return doc, env.CreateElement("soap:Body")
}

// newBatchEnvelope starts a SOAP 1.1 envelope for the fc service.
func newBatchEnvelope() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", soap11NS)
	env.CreateAttr("xmlns:pos", postserverNS)
	env.CreateAttr("xmlns:fcl", fclientNS)

	env.CreateElement("soapenv:Header")
	return doc, env.CreateElement("soapenv:Body")
}

func (c *SOAPAPIClient) addAuthorizationHeader(parent *etree.Element) {
	auth := parent.CreateElement("data:AuthorizationHeader")
	auth.CreateAttr("soap:mustUnderstand", "1")
	auth.CreateElement("data:login").SetText(c.login)
	auth.CreateElement("data:password").SetText(c.password)
}

func (c *SOAPAPIClient) buildHistoryRequest(barcode string) ([]byte, error) {
	doc, body := newSingleEnvelope()

	op := body.CreateElement("oper:getOperationHistory")
	req := op.CreateElement("data:OperationHistoryRequest")
	req.CreateElement("data:Barcode").SetText(barcode)
	req.CreateElement("data:MessageType").SetText("0")
	req.CreateElement("data:Language").SetText(language)
	c.addAuthorizationHeader(op)

	return doc.WriteToBytes()
}

func (c *SOAPAPIClient) buildPostalOrderEventsRequest(barcode string) ([]byte, error) {
	doc, body := newSingleEnvelope()

	op := body.CreateElement("oper:PostalOrderEventsForMail")
	c.addAuthorizationHeader(op)
	input := op.CreateElement("data:PostalOrderEventsForMailInput")
	input.CreateAttr("Barcode", barcode)
	input.CreateAttr("Language", language)

	return doc.WriteToBytes()
}

func (c *SOAPAPIClient) buildTicketRequest(barcodes []string) ([]byte, error) {
	doc, body := newBatchEnvelope()

	op := body.CreateElement("pos:ticketRequest")
	req := op.CreateElement("request")
	for _, barcode := range barcodes {
		req.CreateElement("fcl:Item").CreateAttr("Barcode", barcode)
	}
	op.CreateElement("login").SetText(c.login)
	op.CreateElement("password").SetText(c.password)
	op.CreateElement("language").SetText(language)

	return doc.WriteToBytes()
}

func (c *SOAPAPIClient) buildAnswerRequest(ticket string) ([]byte, error) {
	doc, body := newBatchEnvelope()

	op := body.CreateElement("pos:answerByTicketRequest")
	op.CreateElement("ticket").SetText(ticket)
	op.CreateElement("login").SetText(c.login)
	op.CreateElement("password").SetText(c.password)

	return doc.WriteToBytes()
}

// ============================================================================
// SOAP Response Types
// ============================================================================

type soapEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    soapBody `xml:"Body"`
}

type soapBody struct {
	Fault   *soapFault                 `xml:"Fault"`
	History *historyResponse           `xml:"getOperationHistoryResponse"`
	Events  *postalOrderEventsResponse `xml:"PostalOrderEventsForMailResponse"`
	Ticket  *ticketResponse            `xml:"ticketResponse"`
	Answer  *answerResponse            `xml:"answerByTicketResponse"`
}

// soapFault covers both SOAP 1.1 (faultcode/faultstring) and SOAP 1.2
// (Code/Reason) faults.
type soapFault struct {
	Code     string `xml:"faultcode"`
	String   string `xml:"faultstring"`
	Code12   string `xml:"Code>Value"`
	Reason12 string `xml:"Reason>Text"`
}

func (f *soapFault) apiError() *APIError {
	code, msg := f.Code, f.String
	if code == "" {
		code = f.Code12
	}
	if msg == "" {
		msg = f.Reason12
	}
	return &APIError{Code: code, Message: msg}
}

type historyResponse struct {
	Records []HistoryRecord `xml:"OperationHistoryData>historyRecord"`
}

type postalOrderEventsResponse struct {
	Events []PostalOrderEvent `xml:"PostalOrderEventsForMaiOutput>PostalOrderEvent"`
}

type ticketResponse struct {
	Value string       `xml:"value"`
	Error *TicketError `xml:"error"`
}

type answerResponse struct {
	Items []TicketItem `xml:"value>Item"`
	Error *TicketError `xml:"error"`
}

func parseSOAPError(status int, body []byte) error {
	var env soapEnvelope
	if err := xml.Unmarshal(body, &env); err == nil && env.Body.Fault != nil {
		return env.Body.Fault.apiError()
	}

	return &APIError{
		Code:    fmt.Sprintf("HTTP_%d", status),
		Message: string(body),
	}
}

// Ensure SOAPAPIClient implements APIClient interface
var _ APIClient = (*SOAPAPIClient)(nil)
