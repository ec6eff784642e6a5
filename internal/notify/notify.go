package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Confirmation is the content of an order confirmation mail.
type Confirmation struct {
	OrderID  string
	To       string
	Name     string
	Slot     string
	Address  string
	Lines    []string
	Subtotal string
	Express  string
	Total    string
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, c Confirmation) error
}

func subject(c Confirmation) string {
	return fmt.Sprintf("Dip Dry Care order %s confirmed", c.OrderID)
}

// body renders the plain text confirmation.
func body(c Confirmation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", c.Name)
	fmt.Fprintf(&b, "Thank you for your order %s. We will pick it up %s.\n", c.OrderID, c.Slot)
	if c.Address != "" {
		fmt.Fprintf(&b, "Pickup address: %s\n", c.Address)
	}
	b.WriteString("\n")
	for _, l := range c.Lines {
		fmt.Fprintf(&b, "  %s\n", l)
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", c.Subtotal)
	if c.Express != "" {
		fmt.Fprintf(&b, "Express: %s\n", c.Express)
	}
	b.WriteString("Delivery: Free\n")
	fmt.Fprintf(&b, "Total: %s\n\nPayment is collected on delivery.\n", c.Total)
	return b.String()
}

// LogNotifier writes confirmations to the log instead of mailing them.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendOrderConfirmation(ctx context.Context, c Confirmation) error {
	n.logger.Info("order confirmation",
		zap.String("order_id", c.OrderID),
		zap.String("to", c.To),
		zap.String("subject", subject(c)),
		zap.String("total", c.Total),
	)
	return nil
}
