package export

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"

	"flipfinder/internal/domain"
)

// emailDigestLimit caps how many deals appear in the notification body
const emailDigestLimit = 10

// EmailConfig holds SMTP settings for deal notifications
type EmailConfig struct {
	Server    string
	Port      int
	Sender    string
	Password  string
	Recipient string
}

// Notifier sends deal digests over SMTP
type Notifier struct {
	cfg EmailConfig
	log zerolog.Logger
}

// NewNotifier creates an email notifier
func NewNotifier(cfg EmailConfig, log zerolog.Logger) *Notifier {
	return &Notifier{cfg: cfg, log: log.With().Str("component", "notifier").Logger()}
}

// Configured reports whether the notifier has enough settings to send
func (n *Notifier) Configured() bool {
	return n.cfg.Server != "" && n.cfg.Sender != "" && n.cfg.Recipient != ""
}

// Notify emails a plain-text digest of the top deals. attachmentPath may
// be empty; when set, the file (typically the Excel export) is attached.
func (n *Notifier) Notify(deals []domain.Deal, area string, attachmentPath string) error {
	if !n.Configured() {
		return fmt.Errorf("email notifications are not configured")
	}
	if len(deals) == 0 {
		return fmt.Errorf("no deals to notify about")
	}

	mail := email.NewEmail()
	mail.From = n.cfg.Sender
	mail.To = []string{n.cfg.Recipient}
	mail.Subject = fmt.Sprintf("Flip Finder: %d deals in %s (%s)",
		len(deals), area, time.Now().Format("Jan 2"))
	mail.Text = []byte(n.digest(deals, area))

	if attachmentPath != "" {
		if _, err := mail.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("attaching %s: %w", attachmentPath, err)
		}
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Server, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Sender, n.cfg.Password, n.cfg.Server)
	if err := mail.Send(addr, auth); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}

	n.log.Info().Str("to", n.cfg.Recipient).Int("deals", len(deals)).Msg("Sent deal notification")
	return nil
}

func (n *Notifier) digest(deals []domain.Deal, area string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Flip Finder found %d potential deals in %s.\n\n", len(deals), area)

	shown := deals
	if len(shown) > emailDigestLimit {
		shown = shown[:emailDigestLimit]
	}

	for _, deal := range shown {
		fmt.Fprintf(&b, "#%d  %s\n", deal.Rank, deal.Address)
		fmt.Fprintf(&b, "    List: $%.0f  ARV: $%.0f  Repairs: $%.0f (%s)\n",
			deal.ListPrice, deal.ARV, deal.Repairs.Total, deal.Repairs.Level)
		fmt.Fprintf(&b, "    Profit: $%.0f  ROI: %.1f%%  Score: %.1f\n", deal.Profit, deal.ROI, deal.Score)
		if deal.Meets70Rule {
			fmt.Fprintf(&b, "    Meets the 70%% rule (max purchase $%.0f)\n", deal.MaxPurchasePrice)
		}
		b.WriteString("\n")
	}

	if len(deals) > emailDigestLimit {
		fmt.Fprintf(&b, "...and %d more. See the attached spreadsheet for the full list.\n", len(deals)-emailDigestLimit)
	}
	return b.String()
}
