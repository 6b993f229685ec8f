package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/nats-io/nats.go"
	"github.com/suwityarat/portfolio/config"
	"github.com/suwityarat/portfolio/internal/app/model"
	apprepository "github.com/suwityarat/portfolio/internal/app/repository"
	"github.com/suwityarat/portfolio/internal/infra/prometheus"
	"github.com/suwityarat/portfolio/internal/mail"
	"go.uber.org/zap"
)

const (
	seenFilterCapacity = 100_000
	seenFilterFPRate   = 1e-6
	// seenHorizon bounds how far back the filter is seeded from the ledger.
	// Redelivery stops long before this (max_deliver * retry_delay).
	seenHorizon     = 24 * time.Hour
	fetchErrorPause = time.Second
)

// Delivery is one queued contact message as seen by the consumer.
type Delivery interface {
	Data() []byte
	// Ack removes the message from the queue.
	Ack() error
	// Retry hands the message back to the queue for redelivery.
	Retry() error
}

// Outcome is the terminal state of one Handle call.
type Outcome string

const (
	OutcomeSent      Outcome = "sent"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRetried   Outcome = "retried"
)

// ContactConsumerDeps groups dependencies of the contact consumer.
type ContactConsumerDeps struct {
	JetStream nats.JetStreamContext
	Config    config.ContactConfig
	Logger    *zap.Logger
	Sender    mail.Sender
	Compose   mail.ComposeOptions
	// Ledger is optional; without it duplicates are only caught in-process.
	Ledger apprepository.DeliveryRepository
}

// ContactConsumer pulls contact messages from JetStream and emails them.
type ContactConsumer struct {
	js      nats.JetStreamContext
	cfg     config.ContactConfig
	logger  *zap.Logger
	sender  mail.Sender
	compose mail.ComposeOptions
	ledger  apprepository.DeliveryRepository

	mu   sync.Mutex
	seen *bloom.BloomFilter

	cancel context.CancelFunc
	done   chan struct{}
}

// NewContactConsumer creates a new contact consumer
func NewContactConsumer(deps ContactConsumerDeps) *ContactConsumer {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactConsumer{
		js:      deps.JetStream,
		cfg:     deps.Config,
		logger:  logger,
		sender:  deps.Sender,
		compose: deps.Compose,
		ledger:  deps.Ledger,
		seen:    bloom.NewWithEstimates(seenFilterCapacity, seenFilterFPRate),
	}
}

// Start binds to the durable consumer and begins pulling batches.
func (c *ContactConsumer) Start(ctx context.Context) error {
	sub, err := c.js.PullSubscribe(c.cfg.Subject, c.cfg.Durable, nats.Bind(c.cfg.Stream, c.cfg.Durable))
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	c.seedSeen(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.consume(runCtx, sub)
	return nil
}

// Stop ends the pull loop and waits for the in-flight batch to finish.
func (c *ContactConsumer) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.logger.Info("contact consumer stopped")
}

func (c *ContactConsumer) consume(ctx context.Context, sub *nats.Subscription) {
	defer close(c.done)
	defer func() { _ = sub.Unsubscribe() }()

	batch := c.cfg.BatchSize
	if batch <= 0 {
		batch = 10
	}
	wait := c.cfg.FetchWait
	if wait <= 0 {
		wait = 5 * time.Second
	}

	for {
		if ctx.Err() != nil {
			return
		}

		msgs, err := sub.Fetch(batch, nats.MaxWait(wait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			c.logger.Error("failed to fetch messages", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(fetchErrorPause):
			}
			continue
		}

		deliveries := make([]Delivery, len(msgs))
		for i, msg := range msgs {
			deliveries[i] = &natsDelivery{msg: msg, retryDelay: c.cfg.RetryDelay}
		}
		c.HandleBatch(ctx, deliveries)
	}
}

// HandleBatch processes deliveries one after another. A failure of one
// message does not affect the others.
func (c *ContactConsumer) HandleBatch(ctx context.Context, deliveries []Delivery) {
	if len(deliveries) == 0 {
		return
	}
	c.logger.Debug("processing contact messages", zap.Int("count", len(deliveries)))
	for _, d := range deliveries {
		c.Handle(ctx, d)
	}
}

// Handle formats and sends one message, then acks it, or hands it back for
// retry on any failure.
func (c *ContactConsumer) Handle(ctx context.Context, d Delivery) Outcome {
	var msg model.ContactMessage
	if err := json.Unmarshal(d.Data(), &msg); err != nil {
		c.logger.Error("failed to unmarshal contact message", zap.Error(err))
		return c.retry(ctx, d, "", err)
	}

	if msg.ID != "" && c.alreadySent(ctx, msg.ID) {
		c.logger.Info("contact message already delivered, acknowledging",
			zap.String("id", msg.ID))
		c.ack(d, msg.ID)
		prometheus.RecordContactEmail(prometheus.EmailDuplicate)
		return OutcomeDuplicate
	}

	c.beginAttempt(ctx, msg.ID)

	email, err := mail.ComposeContact(msg, c.compose)
	if err != nil {
		c.logger.Error("failed to format contact email", zap.String("id", msg.ID), zap.Error(err))
		return c.retry(ctx, d, msg.ID, err)
	}

	if err := c.sender.Send(ctx, email); err != nil {
		c.logger.Error("failed to send contact email",
			zap.String("id", msg.ID),
			zap.String("email", msg.Email),
			zap.Error(err))
		return c.retry(ctx, d, msg.ID, err)
	}

	c.markSent(ctx, msg.ID)
	c.ack(d, msg.ID)

	c.logger.Info("contact email sent",
		zap.String("id", msg.ID),
		zap.String("name", msg.Name),
		zap.String("email", msg.Email),
		zap.String("message_id", email.MessageID))
	prometheus.RecordContactEmail(prometheus.EmailSent)
	return OutcomeSent
}

func (c *ContactConsumer) retry(ctx context.Context, d Delivery, id string, cause error) Outcome {
	if id != "" && c.ledger != nil {
		if err := c.ledger.MarkFailed(ctx, id, cause.Error()); err != nil {
			c.logger.Warn("failed to record delivery failure", zap.String("id", id), zap.Error(err))
		}
	}
	if err := d.Retry(); err != nil {
		c.logger.Error("failed to request redelivery", zap.String("id", id), zap.Error(err))
	}
	prometheus.RecordContactEmail(prometheus.EmailRetried)
	return OutcomeRetried
}

func (c *ContactConsumer) ack(d Delivery, id string) {
	if err := d.Ack(); err != nil {
		c.logger.Warn("failed to acknowledge contact message", zap.String("id", id), zap.Error(err))
	}
}

// alreadySent answers from the in-process filter first; a positive is
// confirmed against the ledger when there is one.
func (c *ContactConsumer) alreadySent(ctx context.Context, id string) bool {
	c.mu.Lock()
	maybe := c.seen.TestString(id)
	c.mu.Unlock()
	if !maybe {
		return false
	}
	if c.ledger == nil {
		return true
	}

	sent, err := c.ledger.IsSent(ctx, id)
	if err != nil {
		c.logger.Warn("delivery ledger lookup failed", zap.String("id", id), zap.Error(err))
		return false
	}
	return sent
}

func (c *ContactConsumer) beginAttempt(ctx context.Context, id string) {
	if id == "" || c.ledger == nil {
		return
	}
	if err := c.ledger.BeginAttempt(ctx, id); err != nil {
		c.logger.Warn("failed to record delivery attempt", zap.String("id", id), zap.Error(err))
	}
}

func (c *ContactConsumer) markSent(ctx context.Context, id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	c.seen.AddString(id)
	c.mu.Unlock()

	if c.ledger == nil {
		return
	}
	if err := c.ledger.MarkSent(ctx, id); err != nil {
		c.logger.Warn("failed to record delivery", zap.String("id", id), zap.Error(err))
	}
}

// seedSeen loads recently delivered ids so a restart does not resend
// messages whose ack was lost.
func (c *ContactConsumer) seedSeen(ctx context.Context) {
	if c.ledger == nil {
		return
	}
	ids, err := c.ledger.SentSince(ctx, time.Now().Add(-seenHorizon))
	if err != nil {
		c.logger.Warn("failed to seed delivered ids", zap.Error(err))
		return
	}
	c.mu.Lock()
	for _, id := range ids {
		c.seen.AddString(id)
	}
	c.mu.Unlock()
	c.logger.Info("seeded delivered ids", zap.Int("count", len(ids)))
}

// natsDelivery adapts a JetStream message to Delivery.
type natsDelivery struct {
	msg        *nats.Msg
	retryDelay time.Duration
}

func (d *natsDelivery) Data() []byte { return d.msg.Data }
func (d *natsDelivery) Ack() error   { return d.msg.Ack() }

func (d *natsDelivery) Retry() error {
	if d.retryDelay > 0 {
		return d.msg.NakWithDelay(d.retryDelay)
	}
	return d.msg.Nak()
}
