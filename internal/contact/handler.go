// Package contact implements the contact form endpoint: it parses and
// validates a submission, absorbs honeypot traffic, and forwards the message
// to the configured email provider.
package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sitekit/internal/config"
	"sitekit/pkg/controller"
	"sitekit/pkg/domain"
	"sitekit/pkg/logger"
	"sitekit/pkg/mailer"
	"sitekit/pkg/serrors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	MsgSent          = "Message sent successfully."
	MsgHoneypot      = "Sent."
	MsgNotConfigured = "Server is not configured for email."
	MsgSendFailed    = "Failed to send. Please try again."
	MsgUnexpected    = "Unexpected error occurred."
)

// DefaultMaxBodyBytes caps request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 64 << 10

// Options carries the deployment secrets and limits. Missing secrets are
// reported per request, never at construction time.
type Options struct {
	APIKey       string
	To           string
	From         string
	MaxBodyBytes int64
	SendTimeout  time.Duration
}

// NewOptions maps the contact section of the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		APIKey:       cfg.Contact.ResendAPIKey,
		To:           cfg.Contact.To,
		From:         cfg.Contact.From,
		MaxBodyBytes: cfg.Contact.MaxBodyBytes,
		SendTimeout:  cfg.Contact.SendTimeout,
	}
}

// configured reports whether all three secrets are present.
func (o Options) configured() bool {
	return o.APIKey != "" && o.To != "" && o.From != ""
}

// Deps are the collaborators of Handler.
type Deps struct {
	Sender mailer.Sender
	// Outcomes, when set, counts responses by outcome label.
	Outcomes *prometheus.CounterVec
}

// Handler serves POST /api/contact. It is stateless; concurrent requests
// share nothing but the read-only options and dependencies.
type Handler struct {
	opts Options
	deps Deps
}

var _ http.Handler = (*Handler)(nil)

// New returns a Handler.
func New(deps Deps, opts Options) *Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Handler{opts: opts, deps: deps}
}

// ComposeEmail builds the outbound email for m.
func ComposeEmail(m domain.ContactMessage, from, to string) mailer.Email {
	orNone := func(s string) string {
		if s == "" {
			return "(none)"
		}

		return s
	}

	var b strings.Builder
	b.WriteString("New website contact message:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", m.Name)
	fmt.Fprintf(&b, "Email: %s\n", m.Email)
	fmt.Fprintf(&b, "Phone: %s\n", orNone(m.Phone))
	fmt.Fprintf(&b, "Service: %s\n\n", orNone(m.Service))
	fmt.Fprintf(&b, "Message:\n%s\n", m.Message)

	return mailer.Email{
		From:    from,
		To:      []string{to},
		ReplyTo: m.Email,
		Subject: "[Website] New message from " + m.Name,
		Text:    b.String(),
	}
}

// ServeHTTP runs parse, honeypot, validation, configuration and forward in
// that order. Panics are recovered and reported as a generic 500.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := logger.Named(r.Context(), "contact")

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "contact handler panic", zap.Any("panic", p))
			h.respond(w, http.StatusInternalServerError, "unexpected", Reply{Message: MsgUnexpected})
		}
	}()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.respond(w, http.StatusMethodNotAllowed, "invalid", Reply{Message: "Method not allowed."})

		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	fields, err := ParseFields(r)
	if err != nil {
		h.fail(ctx, w, err)

		return
	}

	msg := domain.ContactMessageFromFields(fields)
	if msg.IsBot() {
		logger.Info(ctx, "honeypot filled, dropping submission", zap.String("client_ip", controller.GetClientIP(r)))
		h.respond(w, http.StatusOK, "honeypot", Reply{OK: true, Message: MsgHoneypot})

		return
	}

	if err := Validate(msg); err != nil {
		h.fail(ctx, w, err)

		return
	}

	if !h.opts.configured() {
		h.fail(ctx, w, serrors.With(serrors.ErrConfiguration, MsgNotConfigured))

		return
	}

	sendCtx := ctx
	if h.opts.SendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, h.opts.SendTimeout)
		defer cancel()
	}

	res, err := h.deps.Sender.Send(sendCtx, ComposeEmail(msg, h.opts.From, h.opts.To))
	if err != nil {
		h.fail(ctx, w, err)

		return
	}

	logger.Info(ctx, "contact message forwarded", zap.String("provider_id", res.ID))
	h.respond(w, http.StatusOK, "sent", Reply{OK: true, Message: MsgSent})
}

// fail logs err in full and responds with its kind's status and a public
// message only.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	status := serrors.HTTPStatus(err)

	var label, fallback string
	switch {
	case errors.Is(err, serrors.ErrValidation):
		label, fallback = "invalid", MsgInvalidBody
	case errors.Is(err, serrors.ErrUnsupported):
		label, fallback = "unsupported", MsgUnsupportedType
	case errors.Is(err, serrors.ErrConfiguration):
		label, fallback = "misconfigured", MsgNotConfigured
	case errors.Is(err, serrors.ErrUpstream):
		// provider text never reaches the visitor
		logger.Error(ctx, "email provider error", zap.Error(err))
		h.respond(w, status, "upstream", Reply{Message: MsgSendFailed})

		return
	default:
		logger.Error(ctx, "contact handler error", zap.Error(err))
		h.respond(w, http.StatusInternalServerError, "unexpected", Reply{Message: MsgUnexpected})

		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "contact submission rejected", zap.Error(err))
	} else {
		logger.Debug(ctx, "contact submission rejected", zap.Error(err))
	}
	h.respond(w, status, label, Reply{Message: serrors.PublicMessage(err, fallback)})
}

func (h *Handler) respond(w http.ResponseWriter, status int, outcome string, r Reply) {
	if h.deps.Outcomes != nil {
		h.deps.Outcomes.WithLabelValues(outcome).Inc()
	}
	writeReply(w, status, r)
}
