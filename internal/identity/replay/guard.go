// Package replay short-circuits duplicate webhook deliveries by message id.
package replay

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vantagehq/vantage/internal/config"
	"go.uber.org/zap"
)

const (
	keyPrefix = "webhook:seen:"
	seenTTL   = 24 * time.Hour
)

// Guard remembers successfully processed message ids in redis. It is an
// optimization only: handlers are idempotent, so correctness never depends
// on it, and every redis failure fails open. Ids are marked after the event
// is applied, never before, so a failed or crashed delivery leaves no mark
// and the sender's redelivery is processed normally.
type Guard struct {
	client *redis.Client
	log    *zap.Logger
}

func NewGuard(cfg config.Config, log *zap.Logger) *Guard {
	g := &Guard{log: log.Named("identity.replay")}
	if cfg.RedisAddr == "" {
		return g
	}
	g.client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	return g
}

// Seen reports whether the message id was already processed. It never
// writes; two concurrent deliveries of an unmarked id both proceed and are
// absorbed by handler idempotency.
func (g *Guard) Seen(ctx context.Context, messageID string) bool {
	if g.client == nil || messageID == "" {
		return false
	}
	n, err := g.client.Exists(ctx, keyPrefix+messageID).Result()
	if err != nil {
		g.log.Warn("replay guard unavailable", zap.Error(err))
		return false
	}
	return n > 0
}

// Mark records the message id once its event has been applied.
func (g *Guard) Mark(ctx context.Context, messageID string) {
	if g.client == nil || messageID == "" {
		return
	}
	if err := g.client.Set(ctx, keyPrefix+messageID, 1, seenTTL).Err(); err != nil {
		g.log.Warn("replay guard unavailable", zap.Error(err))
	}
}
