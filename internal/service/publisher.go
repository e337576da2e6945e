// Package service provides the RabbitMQ publisher for check lifecycle events.
// Publishing is best effort: errors are logged and returned so callers can
// ignore them without interrupting the request flow.
package service

import (
    "context"
    "encoding/json"
    "time"

    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/restaurant-checks/internal/queue"
)

// Publisher sends events to the default exchange, one short-lived
// connection per message.
type Publisher struct {
    URL string
    Log logrus.FieldLogger

    // dial is replaced in tests.
    dial func(url string) (channel, func(), error)
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
    QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
    PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
    return &Publisher{URL: url, Log: log, dial: dialChannel}
}

func dialChannel(url string) (channel, func(), error) {
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, nil, errors.Wrap(err, "dial")
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, nil, errors.Wrap(err, "open channel")
    }
    return ch, func() {
        _ = ch.Close()
        _ = conn.Close()
    }, nil
}

// PublishCheckClosed publishes ev to the durable check.closed queue as a
// persistent message.
func (p *Publisher) PublishCheckClosed(ctx context.Context, ev queue.CheckClosedEvent) error {
    err := p.publish(ctx, queue.CheckClosedQueue, ev)
    if err != nil {
        p.Log.WithError(err).WithField("check_id", ev.CheckID).Warn("rabbitmq: publish failed")
    }
    return err
}

func (p *Publisher) publish(ctx context.Context, queueName string, v interface{}) error {
    body, err := json.Marshal(v)
    if err != nil {
        return errors.Wrap(err, "marshal event")
    }

    ch, done, err := p.dial(p.URL)
    if err != nil {
        return err
    }
    defer done()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        return errors.Wrap(err, "queue declare")
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
        return errors.Wrap(err, "publish")
    }
    return nil
}
