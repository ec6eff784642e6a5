package checkout

import (
	"regexp"
	"strings"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Indian mobile numbers: ten digits starting with 6-9.
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Details is the delivery form, stored under the orderFormData key.
type Details struct {
	FullName            string `json:"fullName"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	City                string `json:"city"`
	Pincode             string `json:"pincode"`
	Area                string `json:"area"`
	SpecialInstructions string `json:"specialInstructions"`
}

// ValidPhone reports whether phone, once non-digits are stripped, is a mobile number.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(order.NormalizePhone(phone))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks required fields, then email and phone format.
// It returns a *ValidationError or nil.
func (d Details) Validate() error {
	var fields []FieldError
	required := []struct {
		name  string
		value string
	}{
		{"fullName", d.FullName},
		{"phone", d.Phone},
		{"email", d.Email},
		{"address", d.Address},
		{"city", d.City},
		{"pincode", d.Pincode},
		{"area", d.Area},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			fields = append(fields, FieldError{Field: r.name, Message: "This field is required"})
		}
	}

	if email := strings.TrimSpace(d.Email); email != "" && !ValidEmail(email) {
		fields = append(fields, FieldError{Field: "email", Message: "Please enter a valid email address"})
	}
	if phone := strings.TrimSpace(d.Phone); phone != "" && !ValidPhone(phone) {
		fields = append(fields, FieldError{Field: "phone", Message: "Please enter a valid 10-digit mobile number"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (d Details) customer() order.Customer {
	return order.Customer{
		FullName:            d.FullName,
		Phone:               order.NormalizePhone(d.Phone),
		Email:               strings.TrimSpace(d.Email),
		Address:             d.Address,
		City:                d.City,
		Pincode:             d.Pincode,
		Area:                d.Area,
		SpecialInstructions: d.SpecialInstructions,
	}
}
