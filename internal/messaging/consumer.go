package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"aduan-portal/internal/model"
	"aduan-portal/internal/repository"

	"github.com/avast/retry-go"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	maxRetryAttempts = 3
	initialDelay     = 1 * time.Second
	maxDelay         = 30 * time.Second
)

// NotificationConsumer turns complaint events into stored notifications
// and pushes them to connected SSE clients.
type NotificationConsumer struct {
	rmq              *RabbitMQ
	notificationRepo *repository.NotificationRepository
	sseHub           *SSEHub
	done             chan struct{}
	wg               sync.WaitGroup
}

func NewNotificationConsumer(rmq *RabbitMQ, notificationRepo *repository.NotificationRepository, sseHub *SSEHub) *NotificationConsumer {
	return &NotificationConsumer{
		rmq:              rmq,
		notificationRepo: notificationRepo,
		sseHub:           sseHub,
		done:             make(chan struct{}),
	}
}

func (c *NotificationConsumer) Start() {
	c.wg.Add(1)
	go c.consumeLoop()
	log.Println("consumer: started")
}

func (c *NotificationConsumer) consumeLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.done:
			log.Println("consumer: stopping")
			return
		default:
			msgs, err := c.rmq.Consume()
			if err != nil {
				log.Printf("consumer: %v, retrying in 5s...", err)
				time.Sleep(5 * time.Second)
				continue
			}

			log.Println("consumer: listening for messages")
			c.processDeliveries(msgs)
		}
	}
}

func (c *NotificationConsumer) processDeliveries(msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-c.done:
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("consumer: channel closed, reconnecting...")
				return
			}
			c.processWithRetry(msg)
		}
	}
}

func (c *NotificationConsumer) processWithRetry(msg amqp.Delivery) {
	messageID := msg.MessageId
	if messageID == "" {
		messageID = fmt.Sprintf("%x", msg.Body[:min(32, len(msg.Body))])
	}

	processed, err := c.notificationRepo.IsMessageProcessed(messageID)
	if err != nil {
		log.Printf("consumer: idempotency check failed: %v", err)
	}
	if processed {
		log.Printf("consumer: %s already processed", messageID)
		msg.Ack(false)
		return
	}

	err = retry.Do(
		func() error {
			return c.handle(msg)
		},
		retry.Attempts(maxRetryAttempts),
		retry.Delay(initialDelay),
		retry.MaxDelay(maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("consumer: retry %d: %v", n+1, err)
		}),
	)

	if err != nil {
		log.Printf("consumer: failed, sending to DLQ: %v", err)
		msg.Nack(false, false)
		return
	}

	if err := c.notificationRepo.MarkMessageProcessed(messageID); err != nil {
		log.Printf("consumer: mark processed failed: %v", err)
	}

	msg.Ack(false)
}

func (c *NotificationConsumer) handle(msg amqp.Delivery) error {
	switch msg.RoutingKey {
	case RoutingKeyStatusUpdate:
		return c.handleStatusUpdate(msg)
	case RoutingKeyComplaintCreated:
		return c.handleComplaintCreated(msg)
	default:
		log.Printf("consumer: unknown routing key %s", msg.RoutingKey)
		return nil
	}
}

func (c *NotificationConsumer) handleStatusUpdate(msg amqp.Delivery) error {
	var event StatusUpdatedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("status_update: bad json: %v", err)
		return nil
	}

	notification := &model.Notification{
		UserID:    event.PelaporID,
		AduanID:   &event.AduanID,
		Title:     "Status Aduan Diperbarui",
		Message:   "Aduan \"" + event.JudulAduan + "\" telah diubah statusnya menjadi: " + event.NewStatus,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := c.notificationRepo.Create(notification); err != nil {
		return err
	}

	c.sseHub.SendToUser(notification)
	return nil
}

func (c *NotificationConsumer) handleComplaintCreated(msg amqp.Delivery) error {
	var event ComplaintCreatedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("aduan_created: bad json: %v", err)
		return nil
	}

	log.Printf("aduan_created: %d %q by %s", event.AduanID, event.JudulAduan, event.PelaporNama)
	return nil
}

func (c *NotificationConsumer) Stop() {
	close(c.done)
	c.wg.Wait()
	log.Println("consumer: stopped")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
