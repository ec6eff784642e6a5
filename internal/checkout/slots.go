package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
)

const (
	slotDays = 7

	morningTime   = "9:00 AM - 12:00 PM"
	afternoonTime = "2:00 PM - 5:00 PM"
	expressTime   = "6:00 PM - 8:00 PM"

	labelStandard = "Standard"
	labelExpress  = "Express (+50%)"
)

// ExpressSurcharge is the share of the subtotal added for express pickup.
var ExpressSurcharge = decimal.RequireFromString("0.5")

type Slot struct {
	ID      string `json:"id"`
	Time    string `json:"time"`
	Date    string `json:"date"`
	Day     string `json:"day"`
	Label   string `json:"label"`
	Express bool   `json:"express"`
}

// Value is the human readable slot stored on the order, e.g. "9:00 AM - 12:00 PM - Tomorrow".
func (s Slot) Value() string {
	v := s.Time + " - " + s.Date
	if s.Express {
		v += " (Express)"
	}
	return v
}

// Slots lists the pickup windows offered at now for the next seven days.
// Today's windows close at 11:00 (morning), 15:00 (afternoon) and 18:00 (express).
// Express pickup is only offered today and tomorrow.
func Slots(now time.Time) []Slot {
	var out []Slot
	hour := now.Hour()
	for i := 0; i < slotDays; i++ {
		day := now.AddDate(0, 0, i)
		today := i == 0
		date := dateLabel(day, i)
		key := day.Format("20060102")

		if !today || hour < 11 {
			out = append(out, Slot{ID: "morning-" + key, Time: morningTime, Date: date, Day: day.Format(time.DateOnly), Label: labelStandard})
		}
		if !today || hour < 15 {
			out = append(out, Slot{ID: "afternoon-" + key, Time: afternoonTime, Date: date, Day: day.Format(time.DateOnly), Label: labelStandard})
		}
		if i <= 1 && (!today || hour < 18) {
			out = append(out, Slot{ID: "express-" + key, Time: expressTime, Date: date, Day: day.Format(time.DateOnly), Label: labelExpress, Express: true})
		}
	}
	return out
}

func dateLabel(day time.Time, offset int) string {
	switch offset {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return day.Format("Monday, Jan 2")
	}
}

func findSlot(now time.Time, id string) (Slot, bool) {
	for _, s := range Slots(now) {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

// Price computes the order pricing for subtotal. Express pickup adds half the subtotal.
func Price(subtotal decimal.Decimal, slot *Slot) order.Pricing {
	express := decimal.Zero
	if slot != nil && slot.Express {
		express = subtotal.Mul(ExpressSurcharge)
	}
	return order.Pricing{
		Subtotal: subtotal,
		Delivery: catalog.DeliveryCharge,
		Express:  express,
		Total:    subtotal.Add(catalog.DeliveryCharge).Add(express),
	}
}
