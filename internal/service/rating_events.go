// Package service holds application services that sit beside the HTTP
// handlers: broker publishing and startup provisioning.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Sukhad17/Roxiler-Assignment/internal/metrics"
	"github.com/Sukhad17/Roxiler-Assignment/internal/queue"
)

const publishTimeout = 5 * time.Second

// RatingPublisher publishes rating events to RabbitMQ in the background.
// Failures are logged and counted; they never reach the request that
// triggered the event.
type RatingPublisher struct {
	url     string
	log     *slog.Logger
	wg      sync.WaitGroup
	publish func(ctx context.Context, ev queue.RatingSubmittedEvent) error
}

func NewRatingPublisher(url string, log *slog.Logger) *RatingPublisher {
	p := &RatingPublisher{url: url, log: log}
	p.publish = p.publishAMQP
	return p
}

// RatingSubmitted schedules ev for publishing and returns immediately.
func (p *RatingPublisher) RatingSubmitted(ev queue.RatingSubmittedEvent) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		err := p.publish(ctx, ev)
		metrics.RecordPublish(err)
		if err != nil {
			p.log.Warn("rating event not published", "rating_id", ev.RatingID, "err", err)
		}
	}()
}

// Wait blocks until in-flight publishes finish.
func (p *RatingPublisher) Wait() { p.wg.Wait() }

// publishAMQP dials, declares the durable queue and publishes a persistent
// JSON message on the default exchange.
func (p *RatingPublisher) publishAMQP(ctx context.Context, ev queue.RatingSubmittedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return errors.Wrap(err, "rabbitmq dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "rabbitmq channel")
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.RatingQueueName, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "rabbitmq queue declare")
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	err = ch.PublishWithContext(ctx, "", queue.RatingQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	return errors.Wrap(err, "rabbitmq publish")
}
