package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/craftline/artisan-market/internal/kafka"
	"github.com/craftline/artisan-market/internal/market"
	"github.com/craftline/artisan-market/internal/redisx"
)

// Service keeps the Redis display caches in sync with resolved purchase
// attempts. It reads the event stream, so it sees every committed purchase
// even ones handled by other API instances.
type Service struct {
	Redis       *redis.Client
	ServiceName string
	Log         *slog.Logger
}

func (s *Service) HandlePurchaseCompleted(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != market.EventPurchaseCompleted {
		return nil
	}
	if s.seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[market.PurchaseCompletedPayload](env.Payload)
	if err != nil {
		return err
	}

	stockKey := fmt.Sprintf(redisx.KeyStock, p.ProductID)
	if err := s.Redis.Set(ctx, stockKey, p.RemainingStock, redisx.TTLStockCache).Err(); err != nil {
		return err
	}
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
	if err := s.Redis.Set(ctx, statusKey, `{"status":"pending"}`, redisx.TTLStatusCache).Err(); err != nil {
		return err
	}

	s.Log.Info("purchase completed",
		"order_id", p.OrderID, "product_id", p.ProductID, "remaining_stock", p.RemainingStock)
	return nil
}

func (s *Service) HandlePurchaseRejected(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != market.EventPurchaseRejected {
		return nil
	}
	if s.seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[market.PurchaseRejectedPayload](env.Payload)
	if err != nil {
		return err
	}

	// a SOLD_OUT rejection carries the stock seen under the lock
	if p.Reason == "SOLD_OUT" {
		stockKey := fmt.Sprintf(redisx.KeyStock, p.ProductID)
		if err := s.Redis.Set(ctx, stockKey, p.Available, redisx.TTLStockCache).Err(); err != nil {
			return err
		}
	}

	s.Log.Info("purchase rejected",
		"product_id", p.ProductID, "buyer_id", p.BuyerID, "reason", p.Reason)
	return nil
}

func (s *Service) seen(ctx context.Context, eventID string) bool {
	key := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, eventID)
	exists, _ := redisx.Exists(ctx, s.Redis, key)
	if exists {
		return true
	}
	_ = s.Redis.Set(ctx, key, "1", redisx.TTLDedup).Err()
	return false
}
