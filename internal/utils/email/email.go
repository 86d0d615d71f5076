package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/roxdxebec/jenga-biz-sub001/internal/config"
	"github.com/roxdxebec/jenga-biz-sub001/internal/models"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendSustainabilityDigest sends the owner a summary of the current health
// metrics and every active sustainability warning
func (s *Sender) SendSustainabilityDigest(to, businessName string, metrics models.HealthMetrics, warnings []models.SustainabilityWarning) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Sustainability alert for %s", businessName)

	var body strings.Builder
	fmt.Fprintf(&body, "Hello,\n\n")
	fmt.Fprintf(&body,
		"Our latest review of %s flagged issues that need your attention.\n\n"+
			"Health score: %d/100 (risk: %s)\n"+
			"Profit margin: %.1f%%\n"+
			"Monthly burn rate: %s\n"+
			"Estimated runway: %.0f days\n\n",
		businessName, metrics.HealthScore, metrics.RiskLevel,
		metrics.ProfitMargin, metrics.BurnRate.StringFixed(2), metrics.SustainabilityDays,
	)
	for i, w := range warnings {
		fmt.Fprintf(&body, "%d. [%s] %s\n   %s\n", i+1, strings.ToUpper(string(w.Severity)), w.Message, w.Recommendation)
	}
	body.WriteString("\nBest regards,\nJenga Biz")
	e.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send digest to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
