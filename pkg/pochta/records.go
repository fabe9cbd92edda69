package pochta

import (
	"github.com/google/uuid"
	"github.com/tournevent/pochta/pkg/pochta/payload"
)

// CorrelationKey is the payload key carrying a record's correlation id. The
// normalization endpoints echo it back because they do not keep input order.
const CorrelationKey = "id"

func newCorrelationID() string {
	return uuid.NewString()
}

// Address is a free-form address sent for normalization.
type Address struct {
	ID       string
	Original string
}

// NewAddress returns an address with a fresh correlation id.
func NewAddress(original string) Address {
	return Address{ID: newCorrelationID(), Original: original}
}

// Payload returns the wire representation.
func (a Address) Payload() payload.Object {
	return payload.Object{
		CorrelationKey:     payload.Scalar(a.ID),
		"original-address": payload.Scalar(a.Original),
	}
}

func (a Address) String() string {
	return a.Original
}

// Name is a full name (surname, given name, patronymic) sent for normalization.
type Name struct {
	ID       string
	Original string
}

// NewName returns a name with a fresh correlation id.
func NewName(original string) Name {
	return Name{ID: newCorrelationID(), Original: original}
}

// Payload returns the wire representation.
func (n Name) Payload() payload.Object {
	return payload.Object{
		CorrelationKey: payload.Scalar(n.ID),
		"original-fio": payload.Scalar(n.Original),
	}
}

func (n Name) String() string {
	return n.Original
}

// Phone is a phone number sent for normalization. Area, Place and Region help
// resolve the city code of landline numbers and may be left nil for mobiles.
type Phone struct {
	ID       string
	Original string
	Area     *string
	Place    *string
	Region   *string
}

// NewPhone returns a phone with a fresh correlation id.
func NewPhone(original string) Phone {
	return Phone{ID: newCorrelationID(), Original: original}
}

// Payload returns the wire representation.
func (p Phone) Payload() payload.Object {
	return payload.Object{
		CorrelationKey:   payload.Scalar(p.ID),
		"original-phone": payload.Scalar(p.Original),
		"area":           payload.Opt(p.Area),
		"place":          payload.Opt(p.Place),
		"region":         payload.Opt(p.Region),
	}
}

func (p Phone) String() string {
	return p.Original
}

// Recipient is checked by the unreliable recipient service.
type Recipient struct {
	ID       string
	Address  string
	FullName string
	Phone    string
}

// NewRecipient returns a recipient with a fresh correlation id.
func NewRecipient(address, fullName, phone string) Recipient {
	return Recipient{
		ID:       newCorrelationID(),
		Address:  address,
		FullName: fullName,
		Phone:    phone,
	}
}

// Payload returns the wire representation.
func (r Recipient) Payload() payload.Object {
	return payload.Object{
		CorrelationKey:  payload.Scalar(r.ID),
		"raw-address":   payload.Scalar(r.Address),
		"raw-full-name": payload.Scalar(r.FullName),
		"raw-telephone": payload.Scalar(r.Phone),
	}
}

func (r Recipient) String() string {
	return r.FullName
}

// payloader is implemented by every value that has a wire representation.
type payloader interface {
	Payload() payload.Object
}

func listOf[T payloader](records []T) payload.Value {
	l := make(payload.List, len(records))
	for i, r := range records {
		l[i] = r.Payload().Value()
	}
	return l.Value()
}
