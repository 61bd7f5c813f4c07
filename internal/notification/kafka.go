package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/mvalerio/account-service/internal/config"
)

// KafkaGateway delivers one-time codes by publishing messages to the
// notification topics. A downstream mailer consumes them and sends the
// actual emails. Sends are synchronous so a failed publish fails the
// operation that produced the code.
type KafkaGateway struct {
	producer          sarama.SyncProducer
	logger            *zap.Logger
	verificationTopic string
	recoveryTopic     string
}

// NewKafkaGateway connects a sync producer to the configured brokers.
func NewKafkaGateway(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaGateway, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Metadata.Retry.Max = 3
	saramaConfig.Metadata.Retry.Backoff = 250 * time.Millisecond

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	logger.Info("Kafka notification gateway initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("verification_topic", cfg.VerificationTopic),
		zap.String("recovery_topic", cfg.RecoveryTopic),
	)

	return &KafkaGateway{
		producer:          producer,
		logger:            logger,
		verificationTopic: cfg.VerificationTopic,
		recoveryTopic:     cfg.RecoveryTopic,
	}, nil
}

type verificationMessage struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Code     string `json:"code"`
}

type recoveryMessage struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// SendVerificationEmail publishes an activation code message keyed by
// the recipient email.
func (g *KafkaGateway) SendVerificationEmail(ctx context.Context, nickname, email, code string) error {
	return g.publish(ctx, g.verificationTopic, email, verificationMessage{
		Nickname: nickname,
		Email:    email,
		Code:     code,
	})
}

// SendRecoverPasswordEmail publishes a recovery code message keyed by
// the recipient email.
func (g *KafkaGateway) SendRecoverPasswordEmail(ctx context.Context, email, code string) error {
	return g.publish(ctx, g.recoveryTopic, email, recoveryMessage{
		Email: email,
		Code:  code,
	})
}

func (g *KafkaGateway) publish(ctx context.Context, topic, key string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	partition, offset, err := g.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(bytes),
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	g.logger.Debug("notification published",
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)

	return nil
}

// Close shuts the producer down, flushing pending messages.
func (g *KafkaGateway) Close() error {
	if err := g.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}
