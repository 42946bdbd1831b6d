package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FullFarming/v0-invoice-management-system/config"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// InvoiceEventChannel 인보이스 상태 변경 이벤트 발행 채널
const InvoiceEventChannel = "invoice:events"

var client *redis.Client

// InvoiceEvent published whenever an invoice changes state
type InvoiceEvent struct {
	Type          string `json:"type"` // submitted, approved, rejected, reminder
	InvoiceNumber string `json:"invoice_number"`
	ProjectName   string `json:"project_name"`
	ActorEmail    string `json:"actor_email,omitempty"`
	TargetEmail   string `json:"target_email"` // who should be notified
	Message       string `json:"message"`
}

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken adds a token to the blacklist
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": expiry.String(),
	})

	key := fmt.Sprintf("blacklist:%s", token)
	err := client.Set(ctx, key, "revoked", expiry).Err()
	if err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}

	logger.Debug("Token successfully blacklisted", nil)
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		// Key does not exist - token is not blacklisted
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}

	// Token is blacklisted
	return val == "revoked", nil
}

// PublishInvoiceEvent publishes an invoice state change to the event channel.
// Safe to call when Redis is not initialized (the event is dropped with a warning).
func PublishInvoiceEvent(ctx context.Context, event InvoiceEvent) error {
	if client == nil {
		logger.Warn("Redis not initialized, dropping invoice event", map[string]interface{}{
			"type":           event.Type,
			"invoice_number": event.InvoiceNumber,
		})
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal invoice event", err, nil)
		return err
	}

	if err := client.Publish(ctx, InvoiceEventChannel, payload).Err(); err != nil {
		logger.Error("Failed to publish invoice event", err, map[string]interface{}{
			"type":           event.Type,
			"invoice_number": event.InvoiceNumber,
		})
		return err
	}

	logger.Debug("Published invoice event", map[string]interface{}{
		"type":           event.Type,
		"invoice_number": event.InvoiceNumber,
		"target_email":   event.TargetEmail,
	})
	return nil
}
