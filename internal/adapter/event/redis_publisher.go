package event

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domainEvent "github.com/wekeepgrowing/semo-payment-method/internal/domain/event"
	"github.com/wekeepgrowing/semo-payment-method/pkg/messaging"
)

// DefaultChannel is the pub/sub channel provisioning events go to.
const DefaultChannel = "payment_method.events"

type redisPublisher struct {
	client  messaging.RedisClient
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher publishes provisioning events as JSON on channel.
func NewRedisPublisher(client messaging.RedisClient, channel string, logger *zap.Logger) domainEvent.Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &redisPublisher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, evt domainEvent.ProvisioningEvent) error {
	if err := p.client.Publish(ctx, p.channel, evt); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}

	p.logger.Debug("Provisioning event published",
		zap.String("channel", p.channel),
		zap.String("event_type", evt.Type),
		zap.String("attempt_id", evt.AttemptID))
	return nil
}
