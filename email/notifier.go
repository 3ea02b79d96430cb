package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"portfolio/models"
)

const sendTimeout = 10 * time.Second

// Notifier sends site notifications without blocking the request that
// triggered them. Failures are logged and otherwise ignored.
type Notifier struct {
	mailer      Mailer
	from        string
	notifyEmail string
	siteURL     string
	logger      *slog.Logger

	wg sync.WaitGroup
}

func NewNotifier(mailer Mailer, from, notifyEmail, siteURL string, logger *slog.Logger) *Notifier {
	return &Notifier{
		mailer:      mailer,
		from:        from,
		notifyEmail: notifyEmail,
		siteURL:     siteURL,
		logger:      logger,
	}
}

// ContactReceived notifies the site owner and sends the sender a confirmation.
func (n *Notifier) ContactReceived(msg *models.Message) {
	if n.notifyEmail != "" {
		n.dispatch("contact notification", Email{
			From:    n.from,
			To:      []string{n.notifyEmail},
			ReplyTo: msg.Email,
			Subject: fmt.Sprintf("New message from %s: %s", msg.Name, subjectOrDefault(msg.Subject)),
			HTML: fmt.Sprintf(
				"<p><strong>From:</strong> %s &lt;%s&gt;</p><p><strong>Subject:</strong> %s</p><p>%s</p>",
				html.EscapeString(msg.Name), html.EscapeString(msg.Email),
				html.EscapeString(subjectOrDefault(msg.Subject)), paragraphs(msg.Message),
			),
		})
	}

	n.dispatch("contact confirmation", Email{
		From:    n.from,
		To:      []string{msg.Email},
		Subject: "Thanks for getting in touch",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Thanks for your message. I'll get back to you as soon as I can.</p><blockquote>%s</blockquote>",
			html.EscapeString(msg.Name), paragraphs(msg.Message),
		),
	})
}

func (n *Notifier) Subscribed(sub *models.Subscriber) {
	n.dispatch("newsletter welcome", Email{
		From:    n.from,
		To:      []string{sub.Email},
		Subject: "Welcome to the newsletter",
		HTML: fmt.Sprintf(
			"<p>Thanks for subscribing! You'll hear about new projects and posts from %s.</p>",
			html.EscapeString(n.siteURL),
		),
	})
}

// Wait blocks until in-flight sends finish. Used on shutdown and in tests.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(kind string, msg Email) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		start := time.Now()
		if err := n.mailer.Send(ctx, msg); err != nil {
			n.logger.Error("failed to send email", "kind", kind, "to", msg.To, "error", err)
			return
		}
		n.logger.Info("email sent", "kind", kind, "to", msg.To, "duration", time.Since(start))
	}()
}

func subjectOrDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(no subject)"
	}
	return s
}

func paragraphs(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
