package allocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"greenledger/credit-market/credit-market-backend/internal/market"
)

// NoWorkMessage is returned when a pass has no producers or no unfulfilled orders
const NoWorkMessage = "No producers or unfulfilled credit orders to process"

// Service runs allocation passes: snapshot producers and unfulfilled orders,
// build a plan, persist the fulfilled orders. Passes are serialized by an
// internal mutex; the engines assume no interleaving between the snapshot
// read and the writes.
type Service struct {
	repo   market.Repository
	logger *zap.Logger
	mu     sync.Mutex
}

// NewService creates the allocation engine
func NewService(repo market.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// UpdateCreditOrderFulfillment runs one allocation pass and reports the outcome.
func (s *Service) UpdateCreditOrderFulfillment(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	producers, err := s.repo.ListProducers(ctx)
	if err != nil {
		return "", fmt.Errorf("listing producers: %w", err)
	}
	orders, err := s.repo.ListUnfulfilledOrders(ctx)
	if err != nil {
		return "", fmt.Errorf("listing unfulfilled orders: %w", err)
	}
	if len(producers) == 0 || len(orders) == 0 {
		return NoWorkMessage, nil
	}

	plan, err := BuildPlan(producers, orders)
	if err != nil {
		return "", err
	}
	if len(plan.Fulfillments) == 0 {
		return "No credit orders could be fulfilled with available supply", nil
	}

	byID := make(map[uuid.UUID]market.CreditOrder, len(orders))
	for _, order := range orders {
		byID[order.ID] = order
	}

	now := time.Now().UTC()
	for _, fulfillment := range plan.Fulfillments {
		order := byID[fulfillment.OrderID]
		order.IsFulfilled = true
		order.UpdatedAt = now
		// Persist each flip immediately; producer supply stays untouched.
		if err := s.repo.UpdateCreditOrder(ctx, &order); err != nil {
			return "", fmt.Errorf("updating order %s: %w", order.ID, err)
		}
		s.logger.Info("credit order fulfilled",
			zap.String("order_id", order.ID.String()),
			zap.String("producer_id", fulfillment.ProducerID.String()),
			zap.String("quantity", fulfillment.Quantity.String()))
	}

	return fmt.Sprintf("Fulfilled %d credit order(s)", len(plan.Fulfillments)), nil
}
