package pochta

import "github.com/tournevent/pochta/pkg/pochta/payload"

// Ptr returns a pointer to v. It is a convenience for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// Order describes a registered postal item for the backlog and batch
// endpoints. Groups left nil are omitted from the request entirely.
type Order struct {
	Mass          int
	OrderNum      string
	Fragile       bool
	MailCategory  MailCategory
	MailType      MailType
	Payment       *int
	PaymentMethod *PaymentType

	Recipient *OrderRecipient
	Address   *OrderAddress
	Customs   *CustomsDeclaration
	Dimension *Dimension
	Items     []Item
	Services  *Services
}

// NewOrder returns an order of category SIMPLE and type POSTAL_PARCEL.
// Mass is in grams.
func NewOrder(mass int, orderNum string, fragile bool) *Order {
	return &Order{
		Mass:         mass,
		OrderNum:     orderNum,
		Fragile:      fragile,
		MailCategory: MailCategorySimple,
		MailType:     MailTypePostalParcel,
	}
}

// OrderRecipient holds the recipient's name and phone.
type OrderRecipient struct {
	GivenName     string
	Surname       string
	MiddleName    *string
	RecipientName *string
	TelAddress    *int64
}

// OrderAddress holds the structured destination address. AddressType defaults
// to DEFAULT when empty.
type OrderAddress struct {
	HouseTo    string
	MailDirect int
	RegionTo   string
	PlaceTo    string
	StreetTo   string

	AddressType      AddressType
	IndexTo          *int
	PostOfficeCode   *string
	AreaTo           *string
	BuildingTo       *string
	HotelTo          *string
	CorpusTo         *string
	SlashTo          *string
	LetterTo         *string
	LocationTo       *string
	OfficeTo         *string
	RoomTo           *string
	NumAddressTypeTo *string
	RawAddress       *string
	StrIndexTo       *string
	VladenieTo       *string
	TransportType    *TransportType
}

// CustomsDeclaration is required for international items.
type CustomsDeclaration struct {
	Currency        string
	EntriesType     EntryType
	Entries         []CustomsEntry
	WithCertificate *bool
	WithInvoice     *bool
	WithLicense     *bool
}

// CustomsEntry is one line of a customs declaration. Weight is in grams.
type CustomsEntry struct {
	Amount      int
	CountryCode int
	Description string
	TnvedCode   string
	Weight      int
	Value       *int
}

// Dimension holds linear dimensions in centimetres.
type Dimension struct {
	Height int
	Length int
	Width  int
}

// Item is one line of the goods attached to an order. Value and InsrValue are
// in kopecks.
type Item struct {
	Description string
	Quantity    int
	Value       *int
	VatRate     *int
	InsrValue   *int
}

// Services holds additional service flags. DeliveryWithCOD is always sent once
// services are set.
type Services struct {
	CompletenessChecking *bool
	Courier              *bool
	EnvelopeType         *EnvelopeType
	DeliveryWithCOD      bool
	InsrValue            *int
	Inventory            *bool
	NoReturn             *bool
	WithOrderOfNotice    *bool
	WithSimpleNotice     *bool
	SMSNoticeRecipient   *int
	NoticePaymentMethod  *PaymentType
	WoMailRank           *bool
}

// SetRecipient sets the recipient group.
func (o *Order) SetRecipient(r OrderRecipient) *Order {
	o.Recipient = &r
	return o
}

// SetAddress sets the address group.
func (o *Order) SetAddress(a OrderAddress) *Order {
	o.Address = &a
	return o
}

// AddCustomsDeclaration attaches a customs declaration.
func (o *Order) AddCustomsDeclaration(d CustomsDeclaration) *Order {
	o.Customs = &d
	return o
}

// SetDimensions sets the linear dimensions.
func (o *Order) SetDimensions(height, length, width int) *Order {
	o.Dimension = &Dimension{Height: height, Length: length, Width: width}
	return o
}

// AddItems appends goods to the order.
func (o *Order) AddItems(items ...Item) *Order {
	o.Items = append(o.Items, items...)
	return o
}

// AddServices sets the additional service flags.
func (o *Order) AddServices(s Services) *Order {
	o.Services = &s
	return o
}

// Payload returns the wire representation. Every optional key is present in
// the tree as Absent when unset; Normalize removes them.
func (o *Order) Payload() payload.Object {
	category := o.MailCategory
	if category == "" {
		category = MailCategorySimple
	}
	mailType := o.MailType
	if mailType == "" {
		mailType = MailTypePostalParcel
	}

	obj := payload.Object{
		"mass":                payload.Scalar(o.Mass),
		"order-num":           payload.Scalar(o.OrderNum),
		"fragile":             payload.Scalar(o.Fragile),
		"mail-category":       payload.Scalar(category),
		"mail-type":           payload.Scalar(mailType),
		"payment":             payload.Opt(o.Payment),
		"payment-method":      payload.Opt(o.PaymentMethod),
		"customs-declaration": payload.Absent(),
		"dimension":           payload.Absent(),
		"goods":               payload.Absent(),
	}

	o.Recipient.fill(obj)
	o.Address.fill(obj)
	o.Services.fill(obj)

	if o.Customs != nil {
		obj["customs-declaration"] = o.Customs.Payload().Value()
	}
	if o.Dimension != nil {
		obj["dimension"] = o.Dimension.Payload().Value()
	}
	if len(o.Items) > 0 {
		obj["goods"] = payload.Object{"items": listOf(o.Items)}.Value()
	}
	return obj
}

func (r *OrderRecipient) fill(obj payload.Object) {
	if r == nil {
		r = &OrderRecipient{}
		obj["given-name"] = payload.Absent()
		obj["surname"] = payload.Absent()
	} else {
		obj["given-name"] = payload.Scalar(r.GivenName)
		obj["surname"] = payload.Scalar(r.Surname)
	}
	obj["middle-name"] = payload.Opt(r.MiddleName)
	obj["recipient-name"] = payload.Opt(r.RecipientName)
	obj["tel-address"] = payload.Opt(r.TelAddress)
}

func (a *OrderAddress) fill(obj payload.Object) {
	required := []string{"house-to", "mail-direct", "region-to", "place-to", "street-to", "address-type-to"}
	if a == nil {
		for _, k := range required {
			obj[k] = payload.Absent()
		}
		a = &OrderAddress{}
	} else {
		addressType := a.AddressType
		if addressType == "" {
			addressType = AddressDefault
		}
		obj["house-to"] = payload.Scalar(a.HouseTo)
		obj["mail-direct"] = payload.Scalar(a.MailDirect)
		obj["region-to"] = payload.Scalar(a.RegionTo)
		obj["place-to"] = payload.Scalar(a.PlaceTo)
		obj["street-to"] = payload.Scalar(a.StreetTo)
		obj["address-type-to"] = payload.Scalar(addressType)
	}
	obj["index-to"] = payload.Opt(a.IndexTo)
	obj["postoffice-code"] = payload.Opt(a.PostOfficeCode)
	obj["area-to"] = payload.Opt(a.AreaTo)
	obj["building-to"] = payload.Opt(a.BuildingTo)
	obj["hotel-to"] = payload.Opt(a.HotelTo)
	obj["corpus-to"] = payload.Opt(a.CorpusTo)
	obj["slash-to"] = payload.Opt(a.SlashTo)
	obj["letter-to"] = payload.Opt(a.LetterTo)
	obj["location-to"] = payload.Opt(a.LocationTo)
	obj["office-to"] = payload.Opt(a.OfficeTo)
	obj["room-to"] = payload.Opt(a.RoomTo)
	obj["num-address-type-to"] = payload.Opt(a.NumAddressTypeTo)
	obj["raw-address"] = payload.Opt(a.RawAddress)
	obj["str-index-to"] = payload.Opt(a.StrIndexTo)
	obj["vladenie-to"] = payload.Opt(a.VladenieTo)
	obj["transport-type"] = payload.Opt(a.TransportType)
}

func (s *Services) fill(obj payload.Object) {
	if s == nil {
		s = &Services{}
		obj["delivery-with-cod"] = payload.Absent()
	} else {
		obj["delivery-with-cod"] = payload.Scalar(s.DeliveryWithCOD)
	}
	obj["completeness-checking"] = payload.Opt(s.CompletenessChecking)
	obj["courier"] = payload.Opt(s.Courier)
	obj["envelope-type"] = payload.Opt(s.EnvelopeType)
	obj["insr-value"] = payload.Opt(s.InsrValue)
	obj["inventory"] = payload.Opt(s.Inventory)
	obj["no-return"] = payload.Opt(s.NoReturn)
	obj["with-order-of-notice"] = payload.Opt(s.WithOrderOfNotice)
	obj["with-simple-notice"] = payload.Opt(s.WithSimpleNotice)
	obj["sms-notice-recipient"] = payload.Opt(s.SMSNoticeRecipient)
	obj["notice-payment-method"] = payload.Opt(s.NoticePaymentMethod)
	obj["wo-mail-rank"] = payload.Opt(s.WoMailRank)
}

// Payload returns the wire representation.
func (d CustomsDeclaration) Payload() payload.Object {
	return payload.Object{
		"currency":         payload.Scalar(d.Currency),
		"entries-type":     payload.Scalar(d.EntriesType),
		"customs-entries":  listOf(d.Entries),
		"with-certificate": payload.Opt(d.WithCertificate),
		"with-invoice":     payload.Opt(d.WithInvoice),
		"with-license":     payload.Opt(d.WithLicense),
	}
}

// Payload returns the wire representation.
func (e CustomsEntry) Payload() payload.Object {
	return payload.Object{
		"amount":       payload.Scalar(e.Amount),
		"country-code": payload.Scalar(e.CountryCode),
		"description":  payload.Scalar(e.Description),
		"tnved-code":   payload.Scalar(e.TnvedCode),
		"weight":       payload.Scalar(e.Weight),
		"value":        payload.Opt(e.Value),
	}
}

// Payload returns the wire representation.
func (d Dimension) Payload() payload.Object {
	return payload.Object{
		"height": payload.Scalar(d.Height),
		"length": payload.Scalar(d.Length),
		"width":  payload.Scalar(d.Width),
	}
}

// Payload returns the wire representation.
func (i Item) Payload() payload.Object {
	return payload.Object{
		"description": payload.Scalar(i.Description),
		"quantity":    payload.Scalar(i.Quantity),
		"value":       payload.Opt(i.Value),
		"vat-rate":    payload.Opt(i.VatRate),
		"insr-value":  payload.Opt(i.InsrValue),
	}
}

func (i Item) String() string {
	return i.Description
}
