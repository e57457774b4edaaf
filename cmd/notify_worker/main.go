package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/config"
	"github.com/warblerhq/warbler/pkg/helpers"
	"github.com/warblerhq/warbler/pkg/mailer"
)

// notify_worker drains the notification queue and sends each job as a
// plain-text email through Mailgun. Failed sends are requeued once by the
// broker via nack.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify-worker", cfg.Env)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(cfg.RabbitMQNotifyQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}
	if err := ch.Qos(8, 0, false); err != nil {
		log.Fatalf("failed to set qos: %v", err)
	}

	deliveries, err := ch.Consume(cfg.RabbitMQNotifyQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to start consumer: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("notify worker consuming from %q", cfg.RabbitMQNotifyQueue)
	for {
		select {
		case <-ctx.Done():
			logger.Info("notify worker shutting down")
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("delivery channel closed")
				return
			}
			handle(ctx, mg, d, logger)
		}
	}
}

func handle(ctx context.Context, mg *mailer.Mailgun, d amqp.Delivery, logger *logrus.Logger) {
	var job mailer.NotifyJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		// malformed payload, never retryable
		logger.Warnf("dropping malformed job: %v", err)
		_ = d.Nack(false, false)
		return
	}
	subject, text := job.Render()
	if err := mg.Send(ctx, job.To, subject, text); err != nil {
		logger.Warnf("send failed for %q: %v", job.Type, err)
		// requeue once; redelivered jobs that fail again are dropped
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	logger.Infof("sent %q notification to %s", job.Type, job.To)
	_ = d.Ack(false)
}
