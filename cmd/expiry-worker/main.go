package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/stayseek/venue-bookings/internal/adapters/crdb"
	"github.com/stayseek/venue-bookings/internal/adapters/rabbit"
	redisadapter "github.com/stayseek/venue-bookings/internal/adapters/redis"
	"github.com/stayseek/venue-bookings/internal/config"
	"github.com/stayseek/venue-bookings/internal/domain"
	"github.com/stayseek/venue-bookings/internal/observability"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.CRDBDSN)
	if err != nil {
		log.Fatalf("failed to connect to crdb: %v", err)
	}
	defer pool.Close()
	repo := crdb.NewRepository(pool)

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	redisCache := redisadapter.NewCache(redisClient)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()
	rabbitPub, err := rabbit.NewPublisher(conn)
	if err != nil {
		log.Fatalf("failed to create publisher: %v", err)
	}

	worker := NewExpiryWorker(repo, redisCache, rabbitPub, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Run(ctx, time.Minute)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown expiry worker")
}

// ExpiryWorker releases holds whose checkout window lapsed, freeing their
// day rows and redis locks so the dates go back on sale.
type ExpiryWorker struct {
	repo      *crdb.Repository
	redis     *redisadapter.Cache
	rabbitPub *rabbit.Publisher
	logger    observability.Logger
}

func NewExpiryWorker(repo *crdb.Repository, redis *redisadapter.Cache, rabbitPub *rabbit.Publisher, logger observability.Logger) *ExpiryWorker {
	return &ExpiryWorker{repo: repo, redis: redis, rabbitPub: rabbitPub, logger: logger}
}

func (w *ExpiryWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			holds, err := w.repo.GetExpiredHolds(ctx, now)
			if err != nil {
				w.logger.WithError(err).Error("failed to get expired holds")
				continue
			}
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(4)
			for _, hold := range holds {
				hold := hold
				g.Go(func() error {
					if err := w.releaseWithRetry(gctx, hold); err != nil {
						w.logger.WithError(err).WithField("hold_id", hold.ID).Error("failed to release expired hold after retries")
					}
					return nil
				})
			}
			g.Wait()
		}
	}
}

func (w *ExpiryWorker) releaseWithRetry(ctx context.Context, hold domain.Hold) error {
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		if err := w.repo.ReleaseHold(ctx, hold.ID); err != nil {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}

		for _, day := range hold.Days() {
			if err := w.redis.ReleaseDateLock(ctx, hold.VenueID.String(), day); err != nil {
				w.logger.WithError(err).Warn("failed to release date lock")
			}
		}

		observability.HoldsExpired.Inc()

		payload, _ := json.Marshal(map[string]interface{}{"hold_id": hold.ID, "venue_id": hold.VenueID})
		msg := amqp.Publishing{
			MessageId:   uuid.New().String(),
			ContentType: "application/json",
			Body:        payload,
		}
		return w.rabbitPub.Publish(ctx, "hold.expired", msg)
	}
	return fmt.Errorf("failed after %d retries", maxRetries)
}
