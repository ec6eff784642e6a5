package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type SendGridNotifier struct {
	apiKey   string
	from     string
	fromName string
	logger   *zap.Logger
}

func NewSendGridNotifier(apiKey, from string, logger *zap.Logger) *SendGridNotifier {
	return &SendGridNotifier{apiKey: apiKey, from: from, fromName: "Dip Dry Care", logger: logger}
}

func (n *SendGridNotifier) SendOrderConfirmation(ctx context.Context, c Confirmation) error {
	if n.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if n.from == "" {
		return fmt.Errorf("from address is empty")
	}
	if c.To == "" {
		return fmt.Errorf("to address is empty")
	}

	text := body(c)
	message := mail.NewSingleEmail(
		mail.NewEmail(n.fromName, n.from),
		subject(c),
		mail.NewEmail(c.Name, c.To),
		text,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(text)),
	)

	client := sendgrid.NewSendClient(n.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}

	n.logger.Info("confirmation mail sent",
		zap.String("order_id", c.OrderID),
		zap.Int("status", response.StatusCode),
	)
	return nil
}
