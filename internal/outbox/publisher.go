package outbox

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stayseek/venue-bookings/internal/adapters/crdb"
	"github.com/stayseek/venue-bookings/internal/adapters/rabbit"
	"github.com/stayseek/venue-bookings/internal/observability"
)

type Publisher struct {
	repo      *crdb.Repository
	rabbitPub *rabbit.Publisher
	logger    observability.Logger
}

func NewPublisher(repo *crdb.Repository, rabbitPub *rabbit.Publisher, logger observability.Logger) *Publisher {
	return &Publisher{repo: repo, rabbitPub: rabbitPub, logger: logger}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			records, err := p.repo.GetUnpublishedOutbox(ctx, 10)
			if err != nil {
				p.logger.WithError(err).Error("failed to fetch outbox records")
				continue
			}
			for _, rec := range records {
				observability.OutboxLag.Set(time.Since(rec.CreatedAt).Seconds())
				msg := amqp.Publishing{
					MessageId:   rec.DedupeKey,
					ContentType: "application/json",
					Body:        rec.Payload,
				}
				if err := p.rabbitPub.Publish(ctx, rec.EventType, msg); err != nil {
					p.logger.WithError(err).WithField("event_type", rec.EventType).Error("failed to publish outbox record")
					continue
				}
				if err := p.repo.MarkPublished(ctx, rec.ID, time.Now(), rec.DedupeKey); err != nil {
					p.logger.WithError(err).Error("failed to mark outbox record published")
				}
			}
		}
	}
}
