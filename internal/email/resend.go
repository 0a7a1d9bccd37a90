package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"

	"github.com/odyssey-travel/odyssey-backend/config"
	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/types"
)

type inviteMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// ResendMailer sends trip invitation emails through Resend.
type ResendMailer struct {
	config      *config.EmailConfig
	frontendURL string
	client      *resend.Client
	metrics     *inviteMetrics
}

// NewResendMailer creates a ResendMailer. The invite link points at the
// frontend accept page.
func NewResendMailer(cfg *config.EmailConfig, frontendURL string) *ResendMailer {
	return NewResendMailerWithRegistry(cfg, frontendURL, prometheus.DefaultRegisterer)
}

func NewResendMailerWithRegistry(cfg *config.EmailConfig, frontendURL string, reg prometheus.Registerer) *ResendMailer {
	metrics := &inviteMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "odyssey_email_send_duration_seconds",
			Help:    "Time taken to send invitation emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "odyssey_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "odyssey_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}
	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &ResendMailer{
		config:      cfg,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
		client:      resend.NewClient(cfg.ResendAPIKey),
		metrics:     metrics,
	}
}

// SendInvite sends the invitation email for a pending share.
func (m *ResendMailer) SendInvite(ctx context.Context, toEmail string, details *types.InviteDetails) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		m.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	tmpl, err := template.New("invite").Parse(inviteEmailTemplate)
	if err != nil {
		m.metrics.errorCount.Inc()
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var htmlContent bytes.Buffer
	if err := tmpl.Execute(&htmlContent, map[string]string{
		"TripTitle": details.TripTitle,
		"OwnerName": details.OwnerName,
		"AcceptURL": fmt.Sprintf("%s/invite/%s", m.frontendURL, details.InviteCode),
	}); err != nil {
		m.metrics.errorCount.Inc()
		return fmt.Errorf("failed to execute template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromAddress),
		To:      []string{toEmail},
		Subject: fmt.Sprintf("%s invited you to \"%s\"", details.OwnerName, details.TripTitle),
		Html:    htmlContent.String(),
	}

	if _, err := m.client.Emails.Send(params); err != nil {
		m.metrics.errorCount.Inc()
		log.Errorw("Failed to send invite email",
			"error", err,
			"to", logger.MaskEmail(toEmail))
		return fmt.Errorf("email send failed: %w", err)
	}

	m.metrics.sentCount.Inc()
	log.Infow("Invite email sent",
		"to", logger.MaskEmail(toEmail),
		"trip", details.TripTitle)
	return nil
}

const inviteEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>You're Invited!</title>
    <style>
        body {
            font-family: 'sans-serif';
            background-color: #f7f7f7;
            color: #333333;
            margin: 0;
            padding: 20px;
            text-align: center;
        }
        .container {
            max-width: 600px;
            margin: 20px auto;
            background-color: #ffffff;
            padding: 30px;
            border-radius: 12px;
            box-shadow: 0 4px 8px rgba(0, 0, 0, 0.05);
        }
        h1 {
            color: #2563EB;
            font-size: 28px;
            margin-bottom: 20px;
        }
        p {
            font-size: 16px;
            line-height: 1.6;
            margin-bottom: 25px;
        }
        .button {
            display: inline-block;
            padding: 12px 24px;
            font-size: 16px;
            font-weight: bold;
            text-decoration: none;
            background-color: #2563EB;
            color: #ffffff;
            border-radius: 8px;
        }
        .link {
            margin-top: 20px;
            font-size: 14px;
            color: #777777;
            word-break: break-all;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>You're Invited to a Trip!</h1>
        <p>{{.OwnerName}} invited you to join the trip "{{.TripTitle}}". Click below to view the invitation:</p>
        <p>
            <a href="{{.AcceptURL}}" class="button">
                View Invitation
            </a>
        </p>
        <p class="link">
            Or copy this link:<br/>
            {{.AcceptURL}}
        </p>
    </div>
</body>
</html>`
