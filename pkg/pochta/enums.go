package pochta

// Enumerations of the Otpravka API. Every constant's wire value is its own
// name.

// EntryType is the category of a shipment's contents.
type EntryType string

const (
	EntryGift             EntryType = "GIFT"
	EntryDocument         EntryType = "DOCUMENT"
	EntrySaleOfGoods      EntryType = "SALE_OF_GOODS"
	EntryCommercialSample EntryType = "COMMERCIAL_SAMPLE"
	EntryOther            EntryType = "OTHER"
)

// MailCategory is the category of a registered postal item.
type MailCategory string

const (
	MailCategorySimple                             MailCategory = "SIMPLE"
	MailCategoryOrdered                            MailCategory = "ORDERED"
	MailCategoryOrdinary                           MailCategory = "ORDINARY"
	MailCategoryWithDeclaredValue                  MailCategory = "WITH_DECLARED_VALUE"
	MailCategoryWithDeclaredValueAndCashOnDelivery MailCategory = "WITH_DECLARED_VALUE_AND_CASH_ON_DELIVERY"
	MailCategoryCombined                           MailCategory = "COMBINED"
)

// MailType is the kind of a registered postal item.
type MailType string

const (
	MailTypePostalParcel      MailType = "POSTAL_PARCEL"
	MailTypeOnlineParcel      MailType = "ONLINE_PARCEL"
	MailTypeOnlineCourier     MailType = "ONLINE_COURIER"
	MailTypeEMS               MailType = "EMS"
	MailTypeEMSOptimal        MailType = "EMS_OPTIMAL"
	MailTypeEMSRT             MailType = "EMS_RT"
	MailTypeLetter            MailType = "LETTER"
	MailTypeLetterClass1      MailType = "LETTER_CLASS_1"
	MailTypeBanderol          MailType = "BANDEROL"
	MailTypeBusinessCourier   MailType = "BUSINESS_COURIER"
	MailTypeBusinessCourierES MailType = "BUSINESS_COURIER_ES"
	MailTypeParcelClass1      MailType = "PARCEL_CLASS_1"
	MailTypeBanderolClass1    MailType = "BANDEROL_CLASS_1"
	MailTypeVGPOClass1        MailType = "VGPO_CLASS_1"
	MailTypeSmallPacket       MailType = "SMALL_PACKET"
	MailTypeCombined          MailType = "COMBINED"
)

// PaymentType is a payment method.
type PaymentType string

const (
	PaymentCashless          PaymentType = "CASHLESS"
	PaymentStamp             PaymentType = "STAMP"
	PaymentFranking          PaymentType = "FRANKING"
	PaymentToFranking        PaymentType = "TO_FRANKING"
	PaymentOnlinePaymentMark PaymentType = "ONLINE_PAYMENT_MARK"
)

// TransportType is the transportation mode of an international item.
type TransportType string

const (
	TransportSurface  TransportType = "SURFACE"
	TransportAvia     TransportType = "AVIA"
	TransportCombined TransportType = "COMBINED"
	TransportExpress  TransportType = "EXPRESS"
)

// PrintType is the address label format.
type PrintType string

const (
	PrintPaper  PrintType = "PAPER"
	PrintThermo PrintType = "THERMO"
)

// PostofficeWorkType restricts post office search by opening hours.
type PostofficeWorkType string

const (
	WorkAll              PostofficeWorkType = "ALL"
	WorkRoundTheClock    PostofficeWorkType = "ROUND_THE_CLOCK"
	WorkCurrentlyWorking PostofficeWorkType = "CURRENTLY_WORKING"
	WorkOnWeekends       PostofficeWorkType = "WORK_ON_WEEKENDS"
)

// AddressType is the recipient address kind.
type AddressType string

const (
	AddressDefault AddressType = "DEFAULT"
	AddressPOBox   AddressType = "PO_BOX"
	AddressDemand  AddressType = "DEMAND"
	AddressUnit    AddressType = "UNIT"
)

// BatchCategory is the category of a batch.
type BatchCategory string

const (
	BatchSimple                                BatchCategory = "SIMPLE"
	BatchOrdered                               BatchCategory = "ORDERED"
	BatchOrdinary                              BatchCategory = "ORDINARY"
	BatchWithDeclaredValue                     BatchCategory = "WITH_DECLARED_VALUE"
	BatchWithDeclaredValueAndCashOnDelivery    BatchCategory = "WITH_DECLARED_VALUE_AND_CASH_ON_DELIVERY"
	BatchWithDeclaredValueAndCompulsoryPayment BatchCategory = "WITH_DECLARED_VALUE_AND_COMPULSORY_PAYMENT"
	BatchCombined                              BatchCategory = "COMBINED"
)

// EnvelopeType is a GOST R 51506-99 envelope format.
type EnvelopeType string

const (
	EnvelopeC4 EnvelopeType = "C4"
	EnvelopeC5 EnvelopeType = "C5"
	EnvelopeDL EnvelopeType = "DL"
	EnvelopeA6 EnvelopeType = "A6"
	EnvelopeA7 EnvelopeType = "A7"
)
