// ABOUTME: Property listing flyer shared by email.
// ABOUTME: Validates listing fields and builds a Gmail compose URL carrying the listing details.
package flyer

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/gookit/validate"
)

// ComposeBase is the Gmail compose endpoint.
const ComposeBase = "https://mail.google.com/mail/"

// ErrInvalidListing means a listing failed validation.
var ErrInvalidListing = errors.New("invalid listing")

// Listing holds the flyer fields. Numbers are kept as entered ("$750,000", "2.5").
type Listing struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	ListPrice   string `json:"list_price"`
	LivingSpace string `json:"living_space"`
	LotSize     string `json:"lot_size"`
	Bedrooms    string `json:"bedrooms"`
	Bathrooms   string `json:"bathrooms"`
	Website     string `json:"website" validate:"fullUrl"`
	AgentName   string `json:"agent_name"`
	AgentEmail  string `json:"agent_email" validate:"email"`
	AgentNumber string `json:"agent_number"`
	AgentDRE    string `json:"agent_dre"`
}

// Normalize trims every field and strips non-digits from the phone and DRE numbers.
func (l Listing) Normalize() Listing {
	for _, f := range []*string{
		&l.Title, &l.Description, &l.Address, &l.ListPrice, &l.LivingSpace, &l.LotSize,
		&l.Bedrooms, &l.Bathrooms, &l.Website, &l.AgentName, &l.AgentEmail,
	} {
		*f = strings.TrimSpace(*f)
	}
	l.AgentNumber = digits(l.AgentNumber)
	l.AgentDRE = digits(l.AgentDRE)
	return l
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Validate checks required fields and formats.
func (l Listing) Validate() error {
	v := validate.Struct(&l)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidListing, v.Errors.One())
	}
	return nil
}

// Subject is the email subject line.
func (l Listing) Subject() string {
	return "New Property Listing: " + l.Title
}

// Body is the plain-text email body.
func (l Listing) Body() string {
	var sb strings.Builder
	sb.WriteString("Property Details:\n")
	fmt.Fprintf(&sb, "Title: %s\n", l.Title)
	fmt.Fprintf(&sb, "Description: %s\n", l.Description)
	fmt.Fprintf(&sb, "Address: %s\n", l.Address)
	fmt.Fprintf(&sb, "Price: %s\n", l.ListPrice)
	fmt.Fprintf(&sb, "Living Space: %s sq ft\n", l.LivingSpace)
	fmt.Fprintf(&sb, "Lot Size: %s sq ft\n", l.LotSize)
	fmt.Fprintf(&sb, "Bedrooms: %s\n", l.Bedrooms)
	fmt.Fprintf(&sb, "Bathrooms: %s\n", l.Bathrooms)
	fmt.Fprintf(&sb, "Property Website: %s\n", l.Website)
	fmt.Fprintf(&sb, "Agent: %s\n", l.AgentName)
	fmt.Fprintf(&sb, "Contact: %s\n", l.AgentNumber)
	fmt.Fprintf(&sb, "DRE#: %s\n", l.AgentDRE)
	return sb.String()
}

// ComposeURL normalizes and validates l, then returns a Gmail compose link
// with an empty recipient, the subject, and the body.
func ComposeURL(l Listing) (string, error) {
	l = l.Normalize()
	if err := l.Validate(); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("view", "cm")
	q.Set("fs", "1")
	q.Set("to", "")
	q.Set("su", l.Subject())
	q.Set("body", l.Body())
	return ComposeBase + "?" + q.Encode(), nil
}
