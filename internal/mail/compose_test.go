package mail

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	netmail "net/mail"
	"strings"
	"testing"
	"time"

	"github.com/suwityarat/portfolio/internal/app/model"
)

func sampleMessage() model.ContactMessage {
	return model.ContactMessage{
		ID:        "m-1",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Subject:   "Hiring for a platform role",
		Message:   "We have a job <script>alert(1)</script> for you.",
		Timestamp: time.Date(2026, 10, 18, 16, 30, 0, 0, time.UTC),
		Source:    model.ContactSourcePage,
		IP:        "203.0.113.9",
		UserAgent: "test-agent",
		Referrer:  "https://suwityarat.me/",
		URL:       "https://suwityarat.me/api/contact",
	}
}

var testOpts = ComposeOptions{
	From:     "noreply@suwityarat.me",
	To:       "jobs@suwityarat.com",
	SiteName: "suwityarat.me",
}

func TestComposeContact_Bodies(t *testing.T) {
	email, err := ComposeContact(sampleMessage(), testOpts)
	if err != nil {
		t.Fatalf("ComposeContact returned error: %v", err)
	}

	if email.Subject != "[Job Opportunity] Hiring for a platform role" {
		t.Fatalf("unexpected subject %q", email.Subject)
	}
	for _, want := range []string{
		"From: Ada Lovelace",
		"Email: ada@example.com",
		"Source: Contact Page",
		"Submitted: October 18, 2026 at 12:30 PM EDT",
		"IP: 203.0.113.9",
		"User Agent: test-agent",
	} {
		if !strings.Contains(email.Text, want) {
			t.Errorf("text body missing %q", want)
		}
	}
	if strings.Contains(email.HTML, "<script>") {
		t.Fatal("html body must escape submitted content")
	}
	if !strings.Contains(email.HTML, "&lt;script&gt;") {
		t.Fatal("expected escaped script tag in html body")
	}
	if !strings.HasSuffix(email.MessageID, "@suwityarat.me>") {
		t.Fatalf("unexpected message id %q", email.MessageID)
	}
}

func TestEmailBytes_MultipartAlternative(t *testing.T) {
	email, err := ComposeContact(sampleMessage(), testOpts)
	if err != nil {
		t.Fatalf("ComposeContact returned error: %v", err)
	}

	raw, err := email.Bytes()
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}

	parsed, err := netmail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if got := parsed.Header.Get("Message-ID"); got != email.MessageID {
		t.Fatalf("expected Message-ID %q, got %q", email.MessageID, got)
	}
	if got := parsed.Header.Get("Reply-To"); !strings.Contains(got, "ada@example.com") {
		t.Fatalf("unexpected Reply-To %q", got)
	}

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("ParseMediaType: %v", err)
	}
	if mediaType != "multipart/alternative" {
		t.Fatalf("unexpected media type %q", mediaType)
	}
	if params["boundary"] != email.Boundary {
		t.Fatalf("expected boundary %q, got %q", email.Boundary, params["boundary"])
	}

	reader := multipart.NewReader(parsed.Body, params["boundary"])
	var types []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		body, _ := io.ReadAll(part)
		types = append(types, part.Header.Get("Content-Type"))
		if !strings.Contains(string(body), "Ada Lovelace") {
			t.Errorf("part %s missing sender name", part.Header.Get("Content-Type"))
		}
	}
	if len(types) != 2 || !strings.HasPrefix(types[0], "text/plain") || !strings.HasPrefix(types[1], "text/html") {
		t.Fatalf("unexpected parts %v", types)
	}
}

func TestEmailBytes_EncodesHeaderBreaks(t *testing.T) {
	email := &Email{
		From:      testOpts.From,
		To:        testOpts.To,
		Subject:   "hello\r\nBcc: victim@example.com",
		MessageID: "<x@suwityarat.me>",
		Text:      "body",
	}
	raw, err := email.Bytes()
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}
	if strings.Contains(string(raw), "\r\nBcc:") {
		t.Fatal("subject line breaks must not produce new headers")
	}
}
