package customer

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmptyName    = errors.New("customer name is required")
	ErrNameTooLong  = errors.New("customer name too long")
	ErrInvalidEmail = errors.New("invalid customer email")
	ErrInvalidPhone = errors.New("invalid customer phone")
)

const (
	MaxNameLength  = 120
	MaxPhoneLength = 32
)

// Identity is the validated contact identity a booking is attributed
// to. A customer row is created lazily on first booking and is unique
// per (company, email); validation happens here, before any store
// access.
type Identity struct {
	name  string
	email string
	phone string
}

func NewIdentity(name, email, phone string) (Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Identity{}, ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return Identity{}, ErrNameTooLong
	}

	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return Identity{}, ErrInvalidEmail
	}

	phone = strings.TrimSpace(phone)
	if len(phone) > MaxPhoneLength {
		return Identity{}, ErrInvalidPhone
	}

	return Identity{name: name, email: email, phone: phone}, nil
}

func (i Identity) Name() string  { return i.name }
func (i Identity) Email() string { return i.email }
func (i Identity) Phone() string { return i.phone }
