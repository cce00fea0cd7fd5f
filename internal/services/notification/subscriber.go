// Package notification prints confirmed-order notifications to the console.
package notification

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tasty-bites/internal/logger"
	"tasty-bites/internal/messaging"
	"tasty-bites/internal/models"
)

// Subscriber consumes order notifications from the fanout queue
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger

	shutdown chan os.Signal
	done     chan bool
}

// NewSubscriber creates a new notification subscriber
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
		shutdown: make(chan os.Signal, 1),
		done:     make(chan bool, 1),
	}
}

// Start starts the notification subscriber
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := s.consumer.StartConsuming(ctx, s.handleNotification); err != nil {
			s.logger.Error("consumer_failed", "Notification consumer failed", requestID, err, nil)
		}
		s.done <- true
	}()

	select {
	case <-s.shutdown:
		s.logger.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
		<-s.done
		return s.consumer.Close()
	case <-s.done:
		return nil
	}
}

// handleNotification processes one confirmed-order notification
func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var notification models.OrderNotification
	if err := messaging.ParseMessage(body, &notification); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return fmt.Errorf("failed to parse notification: %w", err)
	}

	s.displayNotification(&notification)

	return nil
}

// displayNotification prints a human-readable line for kitchen staff
func (s *Subscriber) displayNotification(notification *models.OrderNotification) {
	fmt.Println(formatNotification(notification))

	s.logger.Info("notification_displayed", "Notification displayed", "", map[string]interface{}{
		"order_id":     notification.OrderID,
		"user_phone":   notification.UserPhone,
		"total_amount": notification.TotalAmount.String(),
		"item_count":   notification.ItemCount,
	})
}

// formatNotification creates the console line for one order
func formatNotification(notification *models.OrderNotification) string {
	timestamp := notification.CreatedAt.Format("2006-01-02 15:04:05")

	return fmt.Sprintf(
		"🔔 [%s] New order #%d from %s: %d item(s), ₹%s, deliver to %s",
		timestamp,
		notification.OrderID,
		notification.UserPhone,
		notification.ItemCount,
		notification.TotalAmount,
		notification.Address,
	)
}
