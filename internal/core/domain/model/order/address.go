package order

import (
	"errors"
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

// Address is the plain postal data of a shipping address.
type Address struct {
	Name         string
	Phone        string
	Email        string
	Relationship string
	Line1        string
	Line2        string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// ShippingAddress is a validated Address. Everything except Email,
// Relationship and Line2 is required.
type ShippingAddress struct {
	address Address
}

func NewShippingAddress(a Address) (ShippingAddress, error) {
	a = trimAddress(a)

	required := []struct {
		name  string
		value string
	}{
		{"shippingAddress.name", a.Name},
		{"shippingAddress.phone", a.Phone},
		{"shippingAddress.line1", a.Line1},
		{"shippingAddress.city", a.City},
		{"shippingAddress.state", a.State},
		{"shippingAddress.postalCode", a.PostalCode},
		{"shippingAddress.country", a.Country},
	}

	var missing []error
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, errs.NewValueIsRequiredError(f.name))
		}
	}
	if err := errors.Join(missing...); err != nil {
		return ShippingAddress{}, err
	}

	return ShippingAddress{address: a}, nil
}

// Address returns a copy of the postal fields.
func (s ShippingAddress) Address() Address {
	return s.address
}

func (s ShippingAddress) IsZero() bool {
	return s.address == Address{}
}

func (s ShippingAddress) Validate() error {
	if s.IsZero() {
		return errs.NewValueIsRequiredError("shippingAddress")
	}
	return nil
}

func trimAddress(a Address) Address {
	return Address{
		Name:         strings.TrimSpace(a.Name),
		Phone:        strings.TrimSpace(a.Phone),
		Email:        strings.TrimSpace(a.Email),
		Relationship: strings.TrimSpace(a.Relationship),
		Line1:        strings.TrimSpace(a.Line1),
		Line2:        strings.TrimSpace(a.Line2),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		PostalCode:   strings.TrimSpace(a.PostalCode),
		Country:      strings.TrimSpace(a.Country),
	}
}
