package natsclient

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/suwityarat/portfolio/config"
	"github.com/suwityarat/portfolio/internal/app/model"
)

const defaultConnectTimeout = 5 * time.Second

// Connect creates a NATS connection (with JetStream available) using application config.
func Connect(cfg config.NATSConfig) (*nats.Conn, nats.JetStreamContext, error) {
	opts := []nats.Option{
		nats.Timeout(defaultConnectTimeout),
		nats.Name("portfolio"),
		nats.MaxReconnects(-1),
	}

	if cfg.User != "" {
		opts = append(opts, nats.UserInfo(cfg.User, cfg.Password))
	}

	url := buildURL(cfg)

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("nats: connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("nats: init jetstream: %w", err)
	}

	return conn, js, nil
}

// EnsureContactStream creates the contact stream and its durable pull
// consumer when they do not exist yet. Work-queue retention removes a message
// once it is acknowledged.
func EnsureContactStream(js nats.JetStreamContext, cfg config.ContactConfig) error {
	if _, err := js.StreamInfo(cfg.Stream); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			return fmt.Errorf("nats: stream info: %w", err)
		}
		_, err = js.AddStream(&nats.StreamConfig{
			Name:       cfg.Stream,
			Subjects:   []string{cfg.Subject},
			Retention:  nats.WorkQueuePolicy,
			MaxBytes:   model.ContactStreamMaxBytes,
			Duplicates: model.ContactDuplicateWindow,
		})
		if err != nil {
			return fmt.Errorf("nats: add stream: %w", err)
		}
	}

	if _, err := js.ConsumerInfo(cfg.Stream, cfg.Durable); err != nil {
		if !errors.Is(err, nats.ErrConsumerNotFound) {
			return fmt.Errorf("nats: consumer info: %w", err)
		}
		_, err = js.AddConsumer(cfg.Stream, &nats.ConsumerConfig{
			Durable:       cfg.Durable,
			AckPolicy:     nats.AckExplicitPolicy,
			FilterSubject: cfg.Subject,
			MaxDeliver:    cfg.MaxDeliver,
		})
		if err != nil {
			return fmt.Errorf("nats: add consumer: %w", err)
		}
	}

	return nil
}

func buildURL(cfg config.NATSConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 4222
	}
	return fmt.Sprintf("nats://%s:%d", host, port)
}
