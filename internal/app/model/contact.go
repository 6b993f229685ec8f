package model

import "time"

// ContactMessage is a sanitized contact form submission travelling through the
// contact queue. It is never persisted outside the queue.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
	URL       string    `json:"url"`
}

const (
	ContactSourceModal = "modal"
	ContactSourcePage  = "page"

	DefaultContactSubject = "Contact Form Submission"

	MaxNameLength    = 100
	MaxSubjectLength = 200
	MaxMessageLength = 2000
)

const (
	ContactStreamMaxBytes  = 1024 * 1024 * 50 // 50MB
	ContactDuplicateWindow = 2 * time.Minute
)
