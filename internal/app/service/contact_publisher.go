package service

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/suwityarat/portfolio/internal/app/model"
)

// JetStreamContactPublisher publishes contact messages to the contact stream.
type JetStreamContactPublisher struct {
	js      nats.JetStreamContext
	subject string
}

// NewJetStreamContactPublisher creates a publisher for subject.
func NewJetStreamContactPublisher(js nats.JetStreamContext, subject string) *JetStreamContactPublisher {
	return &JetStreamContactPublisher{js: js, subject: subject}
}

// Publish waits for the stream's ack. The message id doubles as the JetStream
// dedup id, so a retried publish inside the duplicate window is stored once.
func (p *JetStreamContactPublisher) Publish(ctx context.Context, msg *model.ContactMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(p.subject, data, nats.MsgId(msg.ID), nats.Context(ctx))
	return err
}
