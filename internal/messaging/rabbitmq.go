package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "aduan.events"
	QueueName    = "aduan.notifications"

	RoutingKeyStatusUpdate     = "aduan.status.updated"
	RoutingKeyComplaintCreated = "aduan.created"

	reconnectDelay = 5 * time.Second
	publishTimeout = 5 * time.Second
)

// StatusUpdatedEvent rides the outbox whenever a status entry is appended.
type StatusUpdatedEvent struct {
	AduanID    int64  `json:"id_aduan"`
	JudulAduan string `json:"judul_aduan"`
	NewStatus  string `json:"new_status"`
	PelaporID  int64  `json:"id_pelapor"`
	Timestamp  int64  `json:"timestamp"`
}

// ComplaintCreatedEvent rides the outbox when a complaint is filed. The
// aduan id is filled in by the repository once the insert has produced it.
type ComplaintCreatedEvent struct {
	AduanID       int64  `json:"id_aduan"`
	JudulAduan    string `json:"judul_aduan"`
	KategoriAduan string `json:"kategori_aduan"`
	PelaporID     int64  `json:"id_pelapor"`
	PelaporNama   string `json:"nama_pelapor"`
	Timestamp     int64  `json:"timestamp"`
}

func (e *ComplaintCreatedEvent) SetAduanID(id int64) {
	e.AduanID = id
}

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	url     string
	mu      sync.RWMutex
	done    chan struct{}
}

func NewRabbitMQ(host, port, user, password string) (*RabbitMQ, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, password, host, port)

	rmq := &RabbitMQ{
		url:  url,
		done: make(chan struct{}),
	}

	if err := rmq.connect(); err != nil {
		return nil, err
	}

	go rmq.handleReconnect()

	return rmq, nil
}

func (r *RabbitMQ) connect() error {
	var err error

	r.conn, err = amqp.Dial(r.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	r.channel, err = r.conn.Channel()
	if err != nil {
		r.conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = r.channel.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = r.channel.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range []string{RoutingKeyStatusUpdate, RoutingKeyComplaintCreated} {
		if err := r.channel.QueueBind(QueueName, key, ExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue with key %s: %w", key, err)
		}
	}

	log.Println("RabbitMQ connected and configured")
	return nil
}

func (r *RabbitMQ) handleReconnect() {
	for {
		select {
		case <-r.done:
			return
		case err := <-r.conn.NotifyClose(make(chan *amqp.Error)):
			if err != nil {
				log.Printf("RabbitMQ connection lost: %v. Reconnecting...", err)
			}

			r.mu.Lock()
			for {
				if err := r.connect(); err != nil {
					log.Printf("Failed to reconnect: %v. Retrying in %v...", err, reconnectDelay)
					time.Sleep(reconnectDelay)
					continue
				}
				break
			}
			r.mu.Unlock()
		}
	}
}

// Publish sends a pre-marshalled payload with a message id for consumer
// idempotency.
func (r *RabbitMQ) Publish(messageID, routingKey string, payload json.RawMessage) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.channel == nil {
		return fmt.Errorf("channel not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := r.channel.PublishWithContext(
		ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Body:         payload,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

func (r *RabbitMQ) Consume() (<-chan amqp.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.channel == nil {
		return nil, fmt.Errorf("channel not available")
	}

	msgs, err := r.channel.Consume(
		QueueName,
		"",    // consumer tag
		false, // auto-ack (manual ack for reliability)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}

	return msgs, nil
}

func (r *RabbitMQ) Close() {
	close(r.done)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}

	log.Println("RabbitMQ connection closed")
}
