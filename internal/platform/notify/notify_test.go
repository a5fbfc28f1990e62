package notify

import (
	"context"
	"strings"
	"testing"
)

func TestRenderReplacesPlaceholders(t *testing.T) {
	engine := NewTemplateEngine()

	_, body, channel, err := engine.Render(TplEmergencyAlert, map[string]string{
		"hospital":    "City General",
		"units":       "3",
		"blood_group": "O-",
		"condition":   "Accident victim.",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if channel != ChannelSMS {
		t.Errorf("channel = %s, want sms", channel)
	}
	if !strings.Contains(body, "City General") || !strings.Contains(body, "3 unit(s) of O-") {
		t.Errorf("body = %q", body)
	}
	if strings.Contains(body, "{{") {
		t.Errorf("unreplaced placeholder in %q", body)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, _, err := NewTemplateEngine().Render("no-such-template", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestRenderLeavesMissingKeys(t *testing.T) {
	_, body, _, err := NewTemplateEngine().Render(TplCampReminder, map[string]string{"camp": "Mega Drive"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(body, "{{date}}") {
		t.Errorf("missing keys should stay as-is, got %q", body)
	}
}

func TestSendTemplateRoutesByChannel(t *testing.T) {
	email := &MockEmailSender{}
	sms := &MockSMSSender{}
	engine := NewEngine(email, sms, NewTemplateEngine())
	ctx := context.Background()

	if _, err := engine.SendTemplate(ctx, TplHospitalApproved, map[string]string{"hospital": "City General"}, "admin@city.example"); err != nil {
		t.Fatalf("email template: %v", err)
	}
	if _, err := engine.SendTemplate(ctx, TplCampReminder, map[string]string{"camp": "Drive"}, "+911234567890"); err != nil {
		t.Fatalf("sms template: %v", err)
	}

	if calls := email.Calls(); len(calls) != 1 || calls[0].To != "admin@city.example" {
		t.Errorf("email calls = %+v", calls)
	}
	if calls := sms.Calls(); len(calls) != 1 || calls[0].To != "+911234567890" {
		t.Errorf("sms calls = %+v", calls)
	}
}

func TestSendRetriesAndRecordsFailure(t *testing.T) {
	sms := &MockSMSSender{ShouldFail: true}
	engine := NewEngine(&MockEmailSender{}, sms, NewTemplateEngine())

	n := &Notification{Channel: ChannelSMS, Recipient: "+91999", Body: "hi"}
	if err := engine.Send(context.Background(), n); err == nil {
		t.Fatal("expected send failure")
	}
	if n.Status != "failed" || n.Error == "" {
		t.Errorf("notification = %+v", n)
	}
	// Initial attempt plus two retries.
	if got := len(sms.Calls()); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestSendRecordsHistory(t *testing.T) {
	engine := NewEngine(&MockEmailSender{}, &MockSMSSender{}, NewTemplateEngine())

	n := &Notification{Channel: ChannelEmail, Recipient: "a@b.example", Subject: "hi", Body: "body"}
	if err := engine.Send(context.Background(), n); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n.Status != "sent" || n.SentAt == nil || n.ID == "" {
		t.Errorf("notification = %+v", n)
	}

	history := engine.History()
	if len(history) != 1 || history[0].ID != n.ID {
		t.Errorf("history = %+v", history)
	}
}

func TestSendRejectsUnknownChannel(t *testing.T) {
	engine := NewEngine(&MockEmailSender{}, &MockSMSSender{}, NewTemplateEngine())
	n := &Notification{Channel: "pigeon", Recipient: "x", Body: "y"}
	if err := engine.Send(context.Background(), n); err == nil {
		t.Fatal("expected error for unsupported channel")
	}
}
