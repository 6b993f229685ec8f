package mail

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	netmail "net/mail"
	"net/textproto"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/suwityarat/portfolio/internal/app/model"
)

const (
	submittedLayout = "January 2, 2006 at 3:04 PM MST"
	displayZone     = "America/New_York"
)

// Email is a composed multipart/alternative message ready for submission.
type Email struct {
	From      string
	To        string
	ReplyTo   string
	Subject   string
	MessageID string
	Boundary  string
	Date      time.Time
	Text      string
	HTML      string
}

// ComposeOptions carries the envelope and branding used for notifications.
type ComposeOptions struct {
	From     string
	To       string
	SiteName string
}

// ComposeContact renders the text and HTML notification for msg.
func ComposeContact(msg model.ContactMessage, opts ComposeOptions) (*Email, error) {
	intent := ClassifyIntent(msg.Message)
	submitted := formatSubmitted(msg.Timestamp)
	source := sourceLabel(msg.Source)

	text := fmt.Sprintf(`New Contact Form Submission

From: %s
Email: %s
Subject: %s
Source: %s
Submitted: %s
IP: %s
Intent: %s

Message:
%s

---
This message was sent via the contact form on %s
User Agent: %s
Referrer: %s
URL: %s`,
		msg.Name, msg.Email, msg.Subject, source, submitted, msg.IP, intent,
		msg.Message,
		opts.SiteName, msg.UserAgent, orNone(msg.Referrer), orNone(msg.URL))

	html, err := renderContactHTML(contactPageData{
		SiteName:  opts.SiteName,
		Intent:    intent,
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Source:    source,
		Submitted: submitted,
		IP:        msg.IP,
		Message:   msg.Message,
		UserAgent: msg.UserAgent,
		Referrer:  msg.Referrer,
		URL:       msg.URL,
	})
	if err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	replyTo := (&netmail.Address{Name: msg.Name, Address: msg.Email}).String()
	id := strings.ReplaceAll(uuid.NewString(), "-", "")

	return &Email{
		From:      opts.From,
		To:        opts.To,
		ReplyTo:   replyTo,
		Subject:   fmt.Sprintf("[%s] %s", intent, msg.Subject),
		MessageID: fmt.Sprintf("<%s@%s>", id, domainOf(opts.From)),
		Boundary:  "folio-" + id,
		Date:      time.Now(),
		Text:      text,
		HTML:      html,
	}, nil
}

// Bytes renders e as an RFC 5322 message with a multipart/alternative body.
func (e *Email) Bytes() ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if e.Boundary != "" {
		if err := mw.SetBoundary(e.Boundary); err != nil {
			return nil, fmt.Errorf("set boundary: %w", err)
		}
	}

	if err := writeQPPart(mw, "text/plain; charset=UTF-8", e.Text); err != nil {
		return nil, err
	}
	if e.HTML != "" {
		if err := writeQPPart(mw, "text/html; charset=UTF-8", e.HTML); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	date := e.Date
	if date.IsZero() {
		date = time.Now()
	}

	var out bytes.Buffer
	writeHeader(&out, "From", e.From)
	writeHeader(&out, "To", e.To)
	if e.ReplyTo != "" {
		writeHeader(&out, "Reply-To", e.ReplyTo)
	}
	writeHeader(&out, "Subject", mime.QEncoding.Encode("utf-8", e.Subject))
	writeHeader(&out, "Date", date.Format(time.RFC1123Z))
	writeHeader(&out, "Message-ID", e.MessageID)
	writeHeader(&out, "MIME-Version", "1.0")
	writeHeader(&out, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary()))
	out.WriteString("\r\n")
	out.Write(body.Bytes())

	return out.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func writeQPPart(mw *multipart.Writer, contentType, content string) error {
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return fmt.Errorf("create part: %w", err)
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(content)); err != nil {
		return fmt.Errorf("write part: %w", err)
	}
	return qp.Close()
}

func formatSubmitted(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	loc, err := time.LoadLocation(displayZone)
	if err != nil {
		loc = time.UTC
	}
	return ts.In(loc).Format(submittedLayout)
}

func sourceLabel(source string) string {
	if source == model.ContactSourcePage {
		return "Contact Page"
	}
	return "Website Modal"
}

func domainOf(address string) string {
	if parsed, err := netmail.ParseAddress(address); err == nil {
		address = parsed.Address
	}
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		return address[at+1:]
	}
	return "localhost"
}

// envelopeAddress strips any display name for the SMTP envelope.
func envelopeAddress(address string) string {
	if parsed, err := netmail.ParseAddress(address); err == nil {
		return parsed.Address
	}
	return address
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
