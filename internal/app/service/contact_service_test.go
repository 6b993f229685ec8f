package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/suwityarat/portfolio/internal/app/model"
	"github.com/suwityarat/portfolio/internal/apperror"
)

type mockContactPublisher struct {
	publishFn func(ctx context.Context, msg *model.ContactMessage) error
	published []*model.ContactMessage
}

func (m *mockContactPublisher) Publish(ctx context.Context, msg *model.ContactMessage) error {
	if m.publishFn != nil {
		if err := m.publishFn(ctx, msg); err != nil {
			return err
		}
	}
	m.published = append(m.published, msg)
	return nil
}

func validInput() ContactInput {
	return ContactInput{
		Name:      "  Ada Lovelace ",
		Email:     " Ada@Example.COM ",
		Message:   " Hello there ",
		IP:        "203.0.113.9",
		UserAgent: "test-agent",
		Referrer:  "https://suwityarat.me/",
		URL:       "https://suwityarat.me/api/contact",
	}
}

func TestContactService_Submit_EnqueuesOnce(t *testing.T) {
	pub := &mockContactPublisher{}
	svc := NewContactService(pub)

	msg, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected exactly one publish, got %d", len(pub.published))
	}
	if msg.ID == "" {
		t.Fatal("expected message id to be assigned")
	}
	if msg.Name != "Ada Lovelace" || msg.Email != "ada@example.com" || msg.Message != "Hello there" {
		t.Fatalf("unexpected sanitized message %+v", msg)
	}
	if msg.Subject != model.DefaultContactSubject {
		t.Fatalf("expected default subject, got %q", msg.Subject)
	}
	if msg.Source != model.ContactSourceModal {
		t.Fatalf("expected modal source by default, got %q", msg.Source)
	}
	if msg.Timestamp.IsZero() || msg.IP != "203.0.113.9" || msg.URL == "" {
		t.Fatalf("expected request metadata to be recorded, got %+v", msg)
	}
}

func TestContactService_Submit_MissingFields(t *testing.T) {
	cases := map[string]func(*ContactInput){
		"name":    func(in *ContactInput) { in.Name = "   " },
		"email":   func(in *ContactInput) { in.Email = "" },
		"message": func(in *ContactInput) { in.Message = "" },
	}

	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			pub := &mockContactPublisher{}
			svc := NewContactService(pub)
			in := validInput()
			mutate(&in)

			_, err := svc.Submit(context.Background(), in)
			if !apperror.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(pub.published) != 0 {
				t.Fatal("nothing should be enqueued")
			}
		})
	}
}

func TestContactService_Submit_InvalidEmail(t *testing.T) {
	for _, email := range []string{"ada", "ada@", "ada@example", "@example.com", "a da@example.com"} {
		pub := &mockContactPublisher{}
		svc := NewContactService(pub)
		in := validInput()
		in.Email = email

		_, err := svc.Submit(context.Background(), in)
		if !apperror.IsValidation(err) {
			t.Errorf("email %q: expected validation error, got %v", email, err)
		}
		if len(pub.published) != 0 {
			t.Errorf("email %q: nothing should be enqueued", email)
		}
	}
}

func TestContactService_Submit_Truncates(t *testing.T) {
	pub := &mockContactPublisher{}
	svc := NewContactService(pub)
	in := validInput()
	in.Name = strings.Repeat("n", 150)
	in.Subject = strings.Repeat("s", 300)
	in.Message = strings.Repeat("é", 5000)
	in.Source = "page"

	msg, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if got := utf8.RuneCountInString(msg.Message); got != model.MaxMessageLength {
		t.Fatalf("expected message truncated to %d characters, got %d", model.MaxMessageLength, got)
	}
	if !utf8.ValidString(msg.Message) {
		t.Fatal("truncation must not split characters")
	}
	if len(msg.Name) != model.MaxNameLength || len(msg.Subject) != model.MaxSubjectLength {
		t.Fatalf("unexpected lengths name=%d subject=%d", len(msg.Name), len(msg.Subject))
	}
	if msg.Source != model.ContactSourcePage {
		t.Fatalf("expected page source, got %q", msg.Source)
	}
	if pub.published[0].Message != msg.Message {
		t.Fatal("queued message should carry the truncated text")
	}
}

func TestContactService_Submit_PublishFailure(t *testing.T) {
	pub := &mockContactPublisher{
		publishFn: func(ctx context.Context, msg *model.ContactMessage) error {
			return errors.New("nats unavailable")
		},
	}
	svc := NewContactService(pub)

	_, err := svc.Submit(context.Background(), validInput())
	if err == nil {
		t.Fatal("expected enqueue failure to surface")
	}
	if apperror.IsValidation(err) {
		t.Fatal("enqueue failure is not a validation error")
	}
}
