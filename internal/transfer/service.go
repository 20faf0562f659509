package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"greenledger/credit-market/credit-market-backend/internal/market"
)

// Status messages returned verbatim to callers
const (
	MsgInvalidClients      = "Invalid client IDs"
	MsgInvalidQuantity     = "Invalid quantity for credit transfer"
	MsgInsufficientCredits = "Insufficient fulfilled credits for transfer"
)

// Service moves fulfilled credit quantity between client accounts. All
// preconditions are checked before the first write, so a failed transfer
// leaves no partial state. Transfers are serialized by an internal mutex.
type Service struct {
	repo   market.Repository
	logger *zap.Logger
	mu     sync.Mutex
}

// NewService creates the transfer engine
func NewService(repo market.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// TransferCredits deducts quantity from the source client's fulfilled orders
// in ascending-id order and mints exactly one new fulfilled order for the
// destination client. Total fulfilled quantity across clients is conserved.
func (s *Service) TransferCredits(ctx context.Context, fromClientID, toClientID, quantity string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromClient, toClient, err := s.resolveClients(ctx, fromClientID, toClientID)
	if err != nil {
		return MsgInvalidClients, err
	}

	amount, err := decimal.NewFromString(quantity)
	if err != nil || amount.Sign() <= 0 {
		return MsgInvalidQuantity, fmt.Errorf("%w: %q", market.ErrInvalidQuantity, quantity)
	}

	orders, err := s.repo.ListFulfilledOrdersByClient(ctx, fromClient.ID)
	if err != nil {
		return "", fmt.Errorf("listing fulfilled orders: %w", err)
	}
	available := decimal.Zero
	for _, order := range orders {
		available = available.Add(order.Quantity)
	}
	if available.LessThan(amount) {
		return MsgInsufficientCredits, fmt.Errorf("%w: have %s, want %s", market.ErrInsufficientCredits, available, amount)
	}

	now := time.Now().UTC()
	remaining := amount
	for i := range orders {
		order := orders[i]
		if order.Quantity.LessThanOrEqual(remaining) {
			// Fully consumed: the order reverts to unfulfilled.
			order.IsFulfilled = false
			order.UpdatedAt = now
			if err := s.repo.UpdateCreditOrder(ctx, &order); err != nil {
				return "", fmt.Errorf("updating order %s: %w", order.ID, err)
			}
			remaining = remaining.Sub(order.Quantity)
			continue
		}
		// Split: reduce in place and stop, later orders stay untouched.
		order.Quantity = order.Quantity.Sub(remaining)
		order.UpdatedAt = now
		if err := s.repo.UpdateCreditOrder(ctx, &order); err != nil {
			return "", fmt.Errorf("updating order %s: %w", order.ID, err)
		}
		remaining = decimal.Zero
		break
	}

	newOrder := &market.CreditOrder{
		ID:          uuid.New(),
		ClientID:    toClient.ID,
		Quantity:    amount,
		BidPrice:    decimal.Zero,
		IsFulfilled: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCreditOrder(ctx, newOrder); err != nil {
		return "", fmt.Errorf("creating destination order: %w", err)
	}

	s.logger.Info("credits transferred",
		zap.String("from_client", fromClient.ID.String()),
		zap.String("to_client", toClient.ID.String()),
		zap.String("quantity", amount.String()))

	return fmt.Sprintf("Transferred %s renewable energy credits from %s to %s", amount, fromClient.Name, toClient.Name), nil
}

func (s *Service) resolveClients(ctx context.Context, fromClientID, toClientID string) (*market.Client, *market.Client, error) {
	fromID, err := uuid.Parse(fromClientID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: client %q", market.ErrNotFound, fromClientID)
	}
	toID, err := uuid.Parse(toClientID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: client %q", market.ErrNotFound, toClientID)
	}

	fromClient, err := s.repo.GetClientByID(ctx, fromID)
	if err != nil {
		return nil, nil, err
	}
	toClient, err := s.repo.GetClientByID(ctx, toID)
	if err != nil {
		return nil, nil, err
	}
	if fromClient == nil || toClient == nil {
		return nil, nil, fmt.Errorf("%w: client", market.ErrNotFound)
	}
	return fromClient, toClient, nil
}
