// Package notify delivers donor and hospital notifications (emergency blood
// alerts, request decisions, approval notices) over email and SMS with
// template rendering and bounded retry. Senders are interfaces; production
// wiring can plug in a gateway, tests and development use the log sender.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Channel is the delivery channel of a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Notification is a single outbound message.
type Notification struct {
	ID         string            `json:"id"`
	Channel    Channel           `json:"channel"`
	Recipient  string            `json:"recipient"`
	Subject    string            `json:"subject,omitempty"`
	Body       string            `json:"body"`
	TemplateID string            `json:"template_id,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	CreatedAt  time.Time         `json:"created_at"`
	SentAt     *time.Time        `json:"sent_at,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// EmailSender sends email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender sends SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Template defines a reusable notification template with {{key}} placeholders.
type Template struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Subject string  `json:"subject"`
	Body    string  `json:"body"`
	Channel Channel `json:"channel"`
}

// Built-in template ids.
const (
	TplEmergencyAlert   = "emergency-blood-alert"
	TplRequestDecision  = "request-decision"
	TplRequestFulfilled = "request-fulfilled"
	TplHospitalApproved = "hospital-approved"
	TplCampReminder     = "camp-reminder"
)

// TemplateEngine stores templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in blood-bank
// templates pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      TplEmergencyAlert,
			Name:    "Emergency Blood Alert",
			Body:    "URGENT: {{hospital}} needs {{units}} unit(s) of {{blood_group}} blood. {{condition}} Respond if you can donate.",
			Channel: ChannelSMS,
		},
		{
			ID:      TplRequestDecision,
			Name:    "Blood Request Decision",
			Subject: "Your blood request has been {{decision}}",
			Body:    "Dear {{hospital}}, your request for {{quantity}} unit(s) of {{blood_group}} has been {{decision}}. {{notes}}",
			Channel: ChannelEmail,
		},
		{
			ID:      TplRequestFulfilled,
			Name:    "Blood Request Fulfilled",
			Subject: "Blood request fulfilled",
			Body:    "Dear {{hospital}}, {{quantity}} unit(s) of {{blood_group}} have been dispatched against your request.",
			Channel: ChannelEmail,
		},
		{
			ID:      TplHospitalApproved,
			Name:    "Hospital Account Approved",
			Subject: "Your hospital portal account is approved",
			Body:    "Dear {{hospital}}, your account has been approved. You can now sign in to the portal and raise blood requests.",
			Channel: ChannelEmail,
		},
		{
			ID:      TplCampReminder,
			Name:    "Donation Camp Reminder",
			Body:    "Reminder: {{camp}} on {{date}} at {{location}}. Every drop counts!",
			Channel: ChannelSMS,
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template and performs {{key}} replacement. Keys in the
// template but absent from data are left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, channel Channel, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, t.Channel, nil
}

// Engine orchestrates rendering, sending, bounded retry, and in-memory
// history of notifications.
type Engine struct {
	email      EmailSender
	sms        SMSSender
	templates  *TemplateEngine
	maxRetries int

	mu      sync.RWMutex
	history map[string]*Notification
}

func NewEngine(email EmailSender, sms SMSSender, templates *TemplateEngine) *Engine {
	return &Engine{
		email:      email,
		sms:        sms,
		templates:  templates,
		maxRetries: 2,
		history:    make(map[string]*Notification),
	}
}

// Send dispatches a notification, retrying transient failures up to
// maxRetries times before recording it as failed.
func (e *Engine) Send(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now().UTC()
	n.Status = "pending"

	var sendErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		n.Attempts = attempt + 1
		switch n.Channel {
		case ChannelEmail:
			sendErr = e.email.SendEmail(ctx, n.Recipient, n.Subject, n.Body)
		case ChannelSMS:
			sendErr = e.sms.SendSMS(ctx, n.Recipient, n.Body)
		default:
			sendErr = fmt.Errorf("unsupported channel: %s", n.Channel)
		}
		if sendErr == nil || ctx.Err() != nil {
			break
		}
	}

	if sendErr != nil {
		n.Status = "failed"
		n.Error = sendErr.Error()
	} else {
		n.Status = "sent"
		sentAt := time.Now().UTC()
		n.SentAt = &sentAt
	}

	e.mu.Lock()
	e.history[n.ID] = n
	e.mu.Unlock()

	return sendErr
}

// SendTemplate renders a template and sends the result to recipient.
func (e *Engine) SendTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*Notification, error) {
	subject, body, channel, err := e.templates.Render(templateID, data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	n := &Notification{
		Channel:    channel,
		Recipient:  recipient,
		Subject:    subject,
		Body:       body,
		TemplateID: templateID,
		Data:       data,
	}
	if err := e.Send(ctx, n); err != nil {
		return n, err
	}
	return n, nil
}

// History returns a snapshot of all recorded notifications.
func (e *Engine) History() []*Notification {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Notification, 0, len(e.history))
	for _, n := range e.history {
		out = append(out, n)
	}
	return out
}

// LogSender logs instead of delivering. It backs both sender interfaces in
// development, where no gateway is configured.
type LogSender struct {
	Logger zerolog.Logger
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.Logger.Info().Str("channel", "email").Str("to", to).Str("subject", subject).Msg("notification")
	return nil
}

func (s *LogSender) SendSMS(_ context.Context, to, body string) error {
	s.Logger.Info().Str("channel", "sms").Str("to", to).Str("body", body).Msg("notification")
	return nil
}

// MockEmailSender records calls for tests.
type MockEmailSender struct {
	mu         sync.Mutex
	calls      []EmailCall
	ShouldFail bool
}

// EmailCall records a single SendEmail invocation.
type EmailCall struct {
	To      string
	Subject string
	Body    string
}

func (m *MockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{To: to, Subject: subject, Body: body})
	if m.ShouldFail {
		return errors.New("send failed")
	}
	return nil
}

func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockSMSSender records calls for tests.
type MockSMSSender struct {
	mu         sync.Mutex
	calls      []SMSCall
	ShouldFail bool
}

// SMSCall records a single SendSMS invocation.
type SMSCall struct {
	To   string
	Body string
}

func (m *MockSMSSender) SendSMS(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SMSCall{To: to, Body: body})
	if m.ShouldFail {
		return errors.New("send failed")
	}
	return nil
}

func (m *MockSMSSender) Calls() []SMSCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SMSCall, len(m.calls))
	copy(out, m.calls)
	return out
}
