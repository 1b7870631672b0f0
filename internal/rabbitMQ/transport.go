package rabbitMQ

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"StockNotifier/internal/queue"
)

// Transport carries job ids over RabbitMQ: a direct exchange with one
// durable queue per job type, routing key equal to the job type.
type Transport struct {
	Channel  *amqp.Channel
	Exchange string
}

// SetBrokerConnection dials the broker and declares the notifications
// exchange. The returned connection stays open for the process lifetime.
func SetBrokerConnection(connectionPath, exchange string) (*amqp.Connection, *Transport) {
	conn, err := amqp.Dial(connectionPath)
	if err != nil {
		log.Fatalf("Failed to connect to broker: %s", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open a channel: %s", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatalf("Failed to declare notifications exchange: %s", err)
	}

	return conn, &Transport{Channel: ch, Exchange: exchange}
}

// declareQueue creates the durable work queue for a job type and binds it
// to the exchange. Safe to call repeatedly.
func (t *Transport) declareQueue(jobType string) error {
	workQueue, err := t.Channel.QueueDeclare(
		jobType,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("Failed to declare a job queue: %w", err)
	}

	err = t.Channel.QueueBind(
		workQueue.Name,
		jobType,
		t.Exchange,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("Failed to bind a job queue: %w", err)
	}
	return nil
}

// Publish sends a job id to the job type's queue.
func (t *Transport) Publish(ctx context.Context, jobType string, body []byte) error {
	if err := t.declareQueue(jobType); err != nil {
		return err
	}

	err := t.Channel.PublishWithContext(
		ctx,
		t.Exchange,
		jobType,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "text/plain",
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("Failed to publish a job: %w", err)
	}
	return nil
}

// Consume opens a delivery stream for a job type. Deliveries are acked by
// the queue once the handler reaches a terminal state, so unprocessed jobs
// are redelivered.
func (t *Transport) Consume(ctx context.Context, jobType string) (<-chan queue.Delivery, error) {
	if err := t.declareQueue(jobType); err != nil {
		return nil, err
	}

	msgs, err := t.Channel.ConsumeWithContext(
		ctx,
		jobType,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to consume from a job queue: %w", err)
	}

	deliveries := make(chan queue.Delivery)
	go func() {
		defer close(deliveries)
		for msg := range msgs {
			msg := msg
			d := queue.Delivery{
				Body: msg.Body,
				Ack: func() {
					if err := msg.Ack(false); err != nil {
						log.Printf("Failed to ack a job delivery: %s", err)
					}
				},
			}
			select {
			case deliveries <- d:
			case <-ctx.Done():
				return
			}
		}
	}()
	return deliveries, nil
}
