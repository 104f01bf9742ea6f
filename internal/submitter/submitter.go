// Package submitter drives the contact form on a page: it intercepts the
// submit event, posts the fields to the contact endpoint and renders the
// success or error panel from the reply.
package submitter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sitekit/internal/contact"
	"sitekit/internal/dom"
	"sitekit/pkg/logger"
	"sync"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	FormSelector        = "form[data-contact-form]"
	SuccessPanelID      = "formSuccess"
	ErrorPanelID        = "formError"
	SuccessTextSelector = "[data-success-text]"
	ErrorTextSelector   = "[data-error-text]"
	ButtonSelector      = `button[type="submit"]`

	DefaultEndpoint = "/api/contact"

	TextSuccess      = "Your message has been sent successfully. We will get back to you soon."
	TextFailed       = "Failed to send. Please try again."
	TextNetworkError = "Network error. Please try again."
	LabelPending     = "Sending..."
	LabelDefault     = "Send Message"

	hiddenClass  = "hidden"
	maxReplySize = 64 << 10
)

// State is the submission state.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Option customizes a Submitter.
type Option func(*Submitter)

// WithEndpoint overrides the URL the form posts to. Relative URLs resolve
// against the page location.
func WithEndpoint(endpoint string) Option {
	return func(s *Submitter) { s.endpoint = endpoint }
}

// WithStateHook registers fn to observe every state transition.
func WithStateHook(fn func(State)) Option {
	return func(s *Submitter) { s.onState = fn }
}

// Submitter owns the contact form, its panels and its submit control.
type Submitter struct {
	page     *dom.Page
	client   *http.Client
	endpoint string
	onState  func(State)

	form        *goquery.Selection
	button      *goquery.Selection
	successBox  *goquery.Selection
	errorBox    *goquery.Selection
	successText *goquery.Selection
	errorText   *goquery.Selection
	defaults    dom.FormSnapshot

	busy  atomic.Bool
	mu    sync.Mutex
	state State
}

// Bind locates the contact form on page and intercepts its submit event.
// It returns nil when the page has no contact form. Form defaults are
// captured now and restored after a successful submission.
func Bind(ctx context.Context, page *dom.Page, client *http.Client, opts ...Option) *Submitter {
	form := page.QueryAll(FormSelector).First()
	if form.Length() == 0 {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}

	s := &Submitter{
		page:        page,
		client:      client,
		endpoint:    DefaultEndpoint,
		form:        form,
		button:      form.Find(ButtonSelector).First(),
		successBox:  page.ByID(SuccessPanelID),
		errorBox:    page.ByID(ErrorPanelID),
		successText: page.QueryAll(SuccessTextSelector).First(),
		errorText:   page.QueryAll(ErrorTextSelector).First(),
		defaults:    dom.SnapshotForm(form),
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx = logger.Named(ctx, "submitter")
	page.Events().On(dom.EventSubmit, form.Get(0), func(ev *dom.Event) {
		ev.PreventDefault()
		s.Submit(ctx)
	})

	return s
}

// State returns the current state.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Submit posts the form and renders the outcome. It returns StateSuccess or
// StateError for a completed submission, or StatePending when another
// submission is already in flight and this one was ignored. The submit
// control is re-enabled and the state returns to idle on every path.
func (s *Submitter) Submit(ctx context.Context) (result State) {
	if !s.busy.CompareAndSwap(false, true) {
		return StatePending
	}
	defer s.busy.Store(false)

	s.hideAll()
	s.setState(StatePending)

	original := s.button.Text()
	s.button.SetAttr("disabled", "")
	s.button.SetText(LabelPending)

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "contact submit panicked", zap.Any("panic", r))
			s.showError(TextNetworkError)
			result = StateError
		}

		s.button.RemoveAttr("disabled")
		if original == "" {
			original = LabelDefault
		}
		s.button.SetText(original)
		s.setState(result)
		s.setState(StateIdle)
	}()

	status, reply, err := s.post(ctx)
	if err != nil {
		logger.Warn(ctx, "contact submit failed", zap.Error(err))
		s.showError(TextNetworkError)

		return StateError
	}

	if status >= 200 && status < 300 && reply.OK {
		s.showSuccess(reply.Message)
		s.defaults.Restore()

		return StateSuccess
	}

	logger.Debug(ctx, "contact submit rejected", zap.Int("status", status))
	s.showError(reply.Message)

	return StateError
}

// post sends the form as multipart/form-data. A body that is not a valid
// reply decodes to the zero Reply.
func (s *Submitter) post(ctx context.Context) (int, contact.Reply, error) {
	target, err := s.resolveEndpoint()
	if err != nil {
		return 0, contact.Reply{}, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range dom.FormFields(s.form) {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return 0, contact.Reply{}, fmt.Errorf("could not encode field %q: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return 0, contact.Reply{}, fmt.Errorf("could not encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &body)
	if err != nil {
		return 0, contact.Reply{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, contact.Reply{}, fmt.Errorf("could not send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var reply contact.Reply
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize)); err == nil {
		reply, _ = contact.DecodeReply(raw)
	}

	return resp.StatusCode, reply, nil
}

func (s *Submitter) resolveEndpoint() (string, error) {
	ref, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("could not parse endpoint: %w", err)
	}
	if loc := s.page.Location(); loc != nil {
		ref = loc.ResolveReference(ref)
	}

	return ref.String(), nil
}

func (s *Submitter) hideAll() {
	s.successBox.AddClass(hiddenClass)
	s.errorBox.AddClass(hiddenClass)
	s.errorText.SetText("")
}

func (s *Submitter) showSuccess(msg string) {
	s.hideAll()
	if msg == "" {
		msg = TextSuccess
	}
	s.successText.SetText(msg)
	s.successBox.RemoveClass(hiddenClass)
}

func (s *Submitter) showError(msg string) {
	s.hideAll()
	if msg == "" {
		msg = TextFailed
	}
	s.errorText.SetText(msg)
	s.errorBox.RemoveClass(hiddenClass)
}

func (s *Submitter) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	if s.onState != nil {
		s.onState(st)
	}
}
