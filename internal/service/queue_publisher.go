// Package service publishes domain events to RabbitMQ. Errors are logged
// and returned so callers can treat publishing as fire-and-forget without
// interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/school-qr-register/internal/queue"
)

// PublishAudit wraps payload in an Envelope of the given kind and publishes
// it to the durable audit queue. The message is marked persistent. Any
// failure is logged and returned; callers ignore it by design.
func PublishAudit(ctx context.Context, kind string, payload any) error {
	conn, err := amqp.Dial(queue.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.AuditQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}
	body, err := json.Marshal(queue.Envelope{Kind: kind, Payload: raw})
	if err != nil {
		log.Printf("rabbitmq: marshal envelope failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.AuditQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
