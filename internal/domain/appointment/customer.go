package appointment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Egyptian mobile: 01 followed by nine digits.
var egyptMobilePattern = regexp.MustCompile(`^01[0-9]{9}$`)

type Phone string

// NewPhone strips all whitespace before matching, so "010 1234 5678" is accepted.
func NewPhone(raw string) (Phone, error) {
	normalized := strings.Join(strings.Fields(raw), "")
	if !egyptMobilePattern.MatchString(normalized) {
		return "", ErrInvalidPhone
	}
	return Phone(normalized), nil
}

func (p Phone) String() string { return string(p) }

// FieldLimits are storage caps in runes. Longer input is truncated, not rejected.
type FieldLimits struct {
	FullName    int
	AddressLine int
	Notes       int
}

func DefaultFieldLimits() FieldLimits {
	return FieldLimits{
		FullName:    120,
		AddressLine: 300,
		Notes:       1000,
	}
}

type Customer struct {
	fullName    string
	phone       Phone
	addressLine string
	notes       string
	governorate GovernorateID
}

func NewCustomer(fullName string, phone Phone, addressLine, notes string, governorate GovernorateID, limits FieldLimits) Customer {
	return Customer{
		fullName:    truncateRunes(strings.TrimSpace(fullName), limits.FullName),
		phone:       phone,
		addressLine: truncateRunes(strings.TrimSpace(addressLine), limits.AddressLine),
		notes:       truncateRunes(strings.TrimSpace(notes), limits.Notes),
		governorate: governorate,
	}
}

func (c Customer) FullName() string           { return c.fullName }
func (c Customer) Phone() Phone               { return c.phone }
func (c Customer) AddressLine() string        { return c.addressLine }
func (c Customer) Notes() string              { return c.notes }
func (c Customer) Governorate() GovernorateID { return c.governorate }

func (c Customer) HasNotes() bool { return c.notes != "" }

func truncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit]))
}
