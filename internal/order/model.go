package order

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/catalog"
)

type Item struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    decimal.Decimal  `json:"price"`
	Unit     catalog.Unit     `json:"unit"`
	Category catalog.Category `json:"category"`
	Quantity int              `json:"quantity"`
}

type Customer struct {
	FullName            string `json:"fullName"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	City                string `json:"city"`
	Pincode             string `json:"pincode"`
	Area                string `json:"area"`
	SpecialInstructions string `json:"specialInstructions"`
}

type Pickup struct {
	Slot                string `json:"slot"`
	SlotID              string `json:"slotId,omitempty"`
	Date                string `json:"date,omitempty"`
	Express             bool   `json:"express"`
	SpecialInstructions string `json:"specialInstructions"`
}

type Pricing struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Delivery decimal.Decimal `json:"delivery"`
	Express  decimal.Decimal `json:"express"`
	Total    decimal.Decimal `json:"total"`
}

type Order struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"`
	Items     []Item    `json:"items"`
	Customer  Customer  `json:"customer"`
	Pickup    Pickup    `json:"pickup"`
	Pricing   Pricing   `json:"pricing"`
	Timestamp time.Time `json:"timestamp"`
}

// NewID returns an order number such as DDC2024050107341: the brand prefix,
// the local calendar date and five random digits.
func NewID(now time.Time, r *rand.Rand) string {
	var n int
	if r != nil {
		n = r.IntN(100000)
	} else {
		n = rand.IntN(100000)
	}
	return fmt.Sprintf("DDC%s%05d", now.Format("20060102"), n)
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}
