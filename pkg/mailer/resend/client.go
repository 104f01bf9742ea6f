// Package resend provides a mailer.Sender backed by the Resend HTTP API.
package resend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sitekit/pkg/mailer"
	"sitekit/pkg/metrics"
	"sitekit/pkg/serrors"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// DefaultEndpoint is the Resend send-email endpoint.
const DefaultEndpoint = "https://api.resend.com/emails"

// maxErrorBody bounds how much of a provider error response is kept for logging.
const maxErrorBody = 4 << 10

// Client talks to the Resend REST API and fulfills the mailer.Sender
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	token      string // token is the Resend API key sent as a bearer token
	endpoint   string
	duration   metric.Float64Histogram
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the send URL, e.g. for a regional endpoint or a test server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithMeterProvider records send latency on a histogram from mp.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) {
		h, err := mp.Meter("sitekit/mailer/resend").Float64Histogram(
			"sitekit_mailer_send_duration_seconds",
			metric.WithDescription("Latency of email provider send calls."),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...),
		)
		if err == nil {
			c.duration = h
		}
	}
}

// New constructs a Client that uses httpClient and the API token. A nil
// httpClient means http.DefaultClient.
func New(httpClient *http.Client, token string, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	noopHist, _ := noop.NewMeterProvider().Meter("").Float64Histogram("")
	c := &Client{
		httpClient: httpClient,
		token:      token,
		endpoint:   DefaultEndpoint,
		duration:   noopHist,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Ensure Client conforms to the mailer.Sender interface at compile time.
var _ mailer.Sender = (*Client)(nil)

// EncodeEmail renders the Resend JSON payload for email.
func EncodeEmail(email mailer.Email) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("from", func(e *jx.Encoder) { e.Str(email.From) })
		e.Field("to", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, to := range email.To {
					e.Str(to)
				}
			})
		})
		if email.ReplyTo != "" {
			e.Field("reply_to", func(e *jx.Encoder) { e.Str(email.ReplyTo) })
		}
		e.Field("subject", func(e *jx.Encoder) { e.Str(email.Subject) })
		e.Field("text", func(e *jx.Encoder) { e.Str(email.Text) })
	})

	return e.Bytes()
}

// decodeSendRes extracts the message id from a successful response body.
func decodeSendRes(b []byte) (mailer.SendRes, error) {
	var res mailer.SendRes
	d := jx.DecodeBytes(b)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "id" || d.Next() != jx.String {
			return d.Skip()
		}
		id, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "id")
		}
		res.ID = id

		return nil
	}); err != nil {
		return mailer.SendRes{}, errors.Wrap(err, "decode send response")
	}

	return res, nil
}

// Send posts email to Resend. A non-2xx response yields an ErrUpstream error
// whose cause holds the provider's response text; callers must keep that
// cause out of anything shown to end users.
func (c *Client) Send(ctx context.Context, email mailer.Email) (mailer.SendRes, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		c.duration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("outcome", outcome)))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(EncodeEmail(email)))
	if err != nil {
		return mailer.SendRes{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mailer.SendRes{}, serrors.Wrap(serrors.ErrUpstream, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		outcome = "rejected"

		return mailer.SendRes{}, serrors.Wrap(serrors.ErrUpstream,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
			"provider rejected email")
	}

	outcome = "sent"

	// an accepted message with an unreadable body is still accepted
	b, _ := io.ReadAll(resp.Body)
	res, err := decodeSendRes(b)
	if err != nil {
		return mailer.SendRes{}, nil //nolint: nilerr
	}

	return res, nil
}
