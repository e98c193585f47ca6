package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/config"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/logger"
)

// Notifier is the narrow surface the checkout flow depends on. Delivery is
// best-effort; callers must never fail an order because an email bounced.
type Notifier interface {
	Send(ctx context.Context, to, subject, plainBody string) error
}

// Client sends transactional mail through SendGrid.
type Client struct {
	sg       *sendgrid.Client
	from     *sgmail.Email
	logger   *logger.Logger
	disabled bool
}

// NewClient builds the SendGrid mailer. A missing API key produces a client
// that logs and drops mail instead of erroring, so local environments work
// without credentials.
func NewClient(cfg config.SendgridConfig, logg *logger.Logger) *Client {
	apiKey := strings.TrimSpace(cfg.APIKey)
	return &Client{
		sg:       sendgrid.NewSendClient(apiKey),
		from:     sgmail.NewEmail(cfg.FromName, cfg.DefaultFrom),
		logger:   logg,
		disabled: apiKey == "",
	}
}

// Send delivers one plain-text message.
func (c *Client) Send(ctx context.Context, to, subject, plainBody string) error {
	if c == nil {
		return errors.New("mail client not initialized")
	}
	if strings.TrimSpace(to) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}
	if c.disabled {
		if c.logger != nil {
			ctx = c.logger.WithFields(ctx, map[string]any{"subject": subject})
			c.logger.Warn(ctx, "sendgrid disabled, dropping email")
		}
		return nil
	}

	message := sgmail.NewSingleEmail(c.from, subject, sgmail.NewEmail("", to), plainBody, "")
	resp, err := c.sg.SendWithContext(ctx, message)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sendgrid send failed")
	}
	if resp.StatusCode >= 400 {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("sendgrid send failed with status %d", resp.StatusCode))
	}
	if c.logger != nil {
		ctx = c.logger.WithFields(ctx, map[string]any{"subject": subject, "status": resp.StatusCode})
		c.logger.Info(ctx, "email sent")
	}
	return nil
}
