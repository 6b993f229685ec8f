package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/suwityarat/portfolio/internal/app/model"
	"github.com/suwityarat/portfolio/internal/apperror"
	"github.com/suwityarat/portfolio/internal/infra/prometheus"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactPublisher hands a sanitized contact message to the queue.
type ContactPublisher interface {
	Publish(ctx context.Context, msg *model.ContactMessage) error
}

// ContactService validates contact form submissions and enqueues them.
type ContactService interface {
	Submit(ctx context.Context, input ContactInput) (*model.ContactMessage, error)
}

// ContactInput is the raw form data plus what the server observed about the request.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
	Source  string

	IP        string
	UserAgent string
	Referrer  string
	URL       string
}

type contactService struct {
	publisher ContactPublisher
	now       func() time.Time
}

// NewContactService returns a service that publishes through publisher.
func NewContactService(publisher ContactPublisher) ContactService {
	return &contactService{publisher: publisher, now: time.Now}
}

func (s *contactService) Submit(ctx context.Context, input ContactInput) (*model.ContactMessage, error) {
	msg, err := s.sanitize(input)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, msg); err != nil {
		return nil, fmt.Errorf("enqueue contact message: %w", err)
	}

	prometheus.RecordContactSubmission(msg.Source)
	return msg, nil
}

func (s *contactService) sanitize(input ContactInput) (*model.ContactMessage, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)

	if name == "" || email == "" || message == "" {
		return nil, apperror.Validation("Name, email, and message are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.Validation("Invalid email format")
	}

	subject := truncate(strings.TrimSpace(input.Subject), model.MaxSubjectLength)
	if subject == "" {
		subject = model.DefaultContactSubject
	}

	source := model.ContactSourceModal
	if strings.TrimSpace(input.Source) == model.ContactSourcePage {
		source = model.ContactSourcePage
	}

	return &model.ContactMessage{
		ID:        uuid.NewString(),
		Name:      truncate(name, model.MaxNameLength),
		Email:     strings.ToLower(email),
		Subject:   subject,
		Message:   truncate(message, model.MaxMessageLength),
		Timestamp: s.now().UTC(),
		Source:    source,
		IP:        orUnknown(input.IP),
		UserAgent: orUnknown(input.UserAgent),
		Referrer:  input.Referrer,
		URL:       input.URL,
	}, nil
}

// truncate cuts s to at most max characters.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
