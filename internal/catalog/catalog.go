package catalog

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownItem     = errors.New("unknown catalog item")
	ErrUnknownCategory = errors.New("unknown catalog category")
)

type Unit string

const (
	UnitKG    Unit = "KG"
	UnitPiece Unit = "Piece"
	UnitSqft  Unit = "Per sqft"
)

type Category string

const (
	Laundry   Category = "laundry"
	Men       Category = "men"
	Women     Category = "women"
	Woolen    Category = "woolen"
	Household Category = "household"
)

var (
	// MinOrderValue gates checkout progression.
	MinOrderValue = decimal.NewFromInt(349)
	// DeliveryCharge is always zero; pickup and drop are free.
	DeliveryCharge = decimal.Zero
)

// Item is one priced service. Items are immutable and built into the binary.
type Item struct {
	ID       string          `json:"id"`
	Category Category        `json:"category"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Unit     Unit            `json:"unit"`
}

// CategoryItems is one section of the price list.
type CategoryItems struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}

var whitespace = regexp.MustCompile(`\s+`)

// ItemID derives the stable line id used by carts, e.g. "men-t-shirt".
func ItemID(category Category, name string) string {
	return string(category) + "-" + strings.ToLower(whitespace.ReplaceAllString(name, "-"))
}

var (
	sections []CategoryItems
	byID     map[string]Item
)

func init() {
	sections = make([]CategoryItems, 0, len(priceList))
	byID = make(map[string]Item)
	for _, sec := range priceList {
		items := make([]Item, 0, len(sec.entries))
		for _, e := range sec.entries {
			it := Item{
				ID:       ItemID(sec.category, e.name),
				Category: sec.category,
				Name:     e.name,
				Price:    decimal.NewFromInt(e.price),
				Unit:     e.unit,
			}
			items = append(items, it)
			byID[it.ID] = it
		}
		sections = append(sections, CategoryItems{Category: sec.category, Items: items})
	}
}

// Categories returns the category names in display order.
func Categories() []Category {
	out := make([]Category, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Category)
	}
	return out
}

// Sections returns the whole price list grouped by category.
func Sections() []CategoryItems {
	out := make([]CategoryItems, 0, len(sections))
	for _, s := range sections {
		out = append(out, CategoryItems{Category: s.Category, Items: append([]Item(nil), s.Items...)})
	}
	return out
}

func Items(category Category) ([]Item, error) {
	for _, s := range sections {
		if s.Category == category {
			return append([]Item(nil), s.Items...), nil
		}
	}
	return nil, ErrUnknownCategory
}

// All returns every item flattened in category order.
func All() []Item {
	out := make([]Item, 0, len(byID))
	for _, s := range sections {
		out = append(out, s.Items...)
	}
	return out
}

func Lookup(id string) (Item, error) {
	it, ok := byID[id]
	if !ok {
		return Item{}, ErrUnknownItem
	}
	return it, nil
}

// Search matches the query case-insensitively against item names.
// A blank query returns every item.
func Search(query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return All()
	}
	out := []Item{}
	for _, it := range All() {
		if strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it)
		}
	}
	return out
}

// FormatINR renders an amount the way the storefront shows it, e.g. ₹69.00.
func FormatINR(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}
