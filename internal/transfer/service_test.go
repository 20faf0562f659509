package transfer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"greenledger/credit-market/credit-market-backend/internal/market"
)

func testID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func seedClient(t *testing.T, repo market.Repository, n int, name string) market.Client {
	t.Helper()
	now := time.Now().UTC()
	c := market.Client{ID: testID(n), Name: name, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateClient(context.Background(), &c))
	return c
}

func seedFulfilledOrder(t *testing.T, repo market.Repository, n int, clientID uuid.UUID, quantity string) market.CreditOrder {
	t.Helper()
	now := time.Now().UTC().Add(-time.Hour)
	o := market.CreditOrder{
		ID:          testID(100 + n),
		ClientID:    clientID,
		Quantity:    decimal.RequireFromString(quantity),
		BidPrice:    decimal.RequireFromString("12.5"),
		IsFulfilled: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.CreateCreditOrder(context.Background(), &o))
	return o
}

func fulfilledTotal(t *testing.T, repo market.Repository, clientID uuid.UUID) decimal.Decimal {
	t.Helper()
	orders, err := repo.ListFulfilledOrdersByClient(context.Background(), clientID)
	require.NoError(t, err)
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Quantity)
	}
	return total
}

func TestTransferCreditsSplitsSourceOrder(t *testing.T) {
	repo := market.NewMemoryRepository()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	alice := seedClient(t, repo, 1, "Alice Energy")
	bob := seedClient(t, repo, 2, "Bob Industrial")
	source := seedFulfilledOrder(t, repo, 1, alice.ID, "50")

	message, err := svc.TransferCredits(ctx, alice.ID.String(), bob.ID.String(), "30")
	require.NoError(t, err)
	assert.Equal(t, "Transferred 30 renewable energy credits from Alice Energy to Bob Industrial", message)

	got, err := repo.GetCreditOrderByID(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFulfilled)
	assert.True(t, got.Quantity.Equal(decimal.RequireFromString("20")))
	assert.True(t, got.UpdatedAt.After(source.UpdatedAt))

	bobOrders, err := repo.ListFulfilledOrdersByClient(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobOrders, 1)
	assert.True(t, bobOrders[0].Quantity.Equal(decimal.RequireFromString("30")))
	assert.True(t, bobOrders[0].BidPrice.IsZero())
	assert.True(t, bobOrders[0].IsFulfilled)
}

func TestTransferCreditsAcrossOrderBoundaries(t *testing.T) {
	repo := market.NewMemoryRepository()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	alice := seedClient(t, repo, 1, "Alice Energy")
	bob := seedClient(t, repo, 2, "Bob Industrial")
	first := seedFulfilledOrder(t, repo, 1, alice.ID, "20")
	second := seedFulfilledOrder(t, repo, 2, alice.ID, "20")

	_, err := svc.TransferCredits(ctx, alice.ID.String(), bob.ID.String(), "25")
	require.NoError(t, err)

	// First order fully consumed, flipped back to unfulfilled.
	got, err := repo.GetCreditOrderByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFulfilled)
	assert.True(t, got.Quantity.Equal(decimal.RequireFromString("20")))

	// Second order reduced to 5, still fulfilled.
	got, err = repo.GetCreditOrderByID(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFulfilled)
	assert.True(t, got.Quantity.Equal(decimal.RequireFromString("5")))

	assert.True(t, fulfilledTotal(t, repo, alice.ID).Equal(decimal.RequireFromString("5")))
	assert.True(t, fulfilledTotal(t, repo, bob.ID).Equal(decimal.RequireFromString("25")))
}

func TestTransferCreditsConservation(t *testing.T) {
	repo := market.NewMemoryRepository()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	alice := seedClient(t, repo, 1, "Alice Energy")
	bob := seedClient(t, repo, 2, "Bob Industrial")
	seedFulfilledOrder(t, repo, 1, alice.ID, "10")
	seedFulfilledOrder(t, repo, 2, alice.ID, "15")
	seedFulfilledOrder(t, repo, 3, alice.ID, "20")
	seedFulfilledOrder(t, repo, 4, bob.ID, "7")

	before := fulfilledTotal(t, repo, alice.ID).Add(fulfilledTotal(t, repo, bob.ID))

	// Exactly exhausts the first two source orders plus part of the third.
	_, err := svc.TransferCredits(ctx, alice.ID.String(), bob.ID.String(), "31")
	require.NoError(t, err)

	after := fulfilledTotal(t, repo, alice.ID).Add(fulfilledTotal(t, repo, bob.ID))
	assert.True(t, before.Equal(after), "total fulfilled quantity changed: %s -> %s", before, after)
	assert.True(t, fulfilledTotal(t, repo, alice.ID).Equal(decimal.RequireFromString("14")))
	assert.True(t, fulfilledTotal(t, repo, bob.ID).Equal(decimal.RequireFromString("38")))
}

func TestTransferCreditsExactDeduction(t *testing.T) {
	repo := market.NewMemoryRepository()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	alice := seedClient(t, repo, 1, "Alice Energy")
	bob := seedClient(t, repo, 2, "Bob Industrial")
	first := seedFulfilledOrder(t, repo, 1, alice.ID, "20")
	second := seedFulfilledOrder(t, repo, 2, alice.ID, "20")

	_, err := svc.TransferCredits(ctx, alice.ID.String(), bob.ID.String(), "40")
	require.NoError(t, err)

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		got, getErr := repo.GetCreditOrderByID(ctx, id)
		require.NoError(t, getErr)
		assert.False(t, got.IsFulfilled)
	}
	assert.True(t, fulfilledTotal(t, repo, alice.ID).IsZero())
	assert.True(t, fulfilledTotal(t, repo, bob.ID).Equal(decimal.RequireFromString("40")))
}

func TestTransferCreditsInsufficientBalance(t *testing.T) {
	repo := market.NewMemoryRepository()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	alice := seedClient(t, repo, 1, "Alice Energy")
	bob := seedClient(t, repo, 2, "Bob Industrial")
	source := seedFulfilledOrder(t, repo, 1, alice.ID, "40")

	message, err := svc.TransferCredits(ctx, alice.ID.String(), bob.ID.String(), "1000")
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrInsufficientCredits)
	assert.Equal(t, MsgInsufficientCredits, message)

	// Nothing mutated.
	got, err := repo.GetCreditOrderByID(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFulfilled)
	assert.True(t, got.Quantity.Equal(decimal.RequireFromString("40")))
	assert.Equal(t, source.UpdatedAt, got.UpdatedAt)

	bobOrders, err := repo.ListFulfilledOrdersByClient(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobOrders)
}

func TestTransferCreditsUnknownClient(t *testing.T) {
	repo := market.NewMemoryRepository()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	bob := seedClient(t, repo, 2, "Bob Industrial")

	message, err := svc.TransferCredits(ctx, "bad-id", bob.ID.String(), "10")
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrNotFound)
	assert.Equal(t, MsgInvalidClients, message)

	message, err = svc.TransferCredits(ctx, testID(999).String(), bob.ID.String(), "10")
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrNotFound)
	assert.Equal(t, MsgInvalidClients, message)
}

func TestTransferCreditsInvalidQuantity(t *testing.T) {
	repo := market.NewMemoryRepository()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	alice := seedClient(t, repo, 1, "Alice Energy")
	bob := seedClient(t, repo, 2, "Bob Industrial")
	seedFulfilledOrder(t, repo, 1, alice.ID, "40")

	for _, quantity := range []string{"abc", "", "0", "-5"} {
		message, err := svc.TransferCredits(ctx, alice.ID.String(), bob.ID.String(), quantity)
		require.Error(t, err, "quantity %q", quantity)
		assert.ErrorIs(t, err, market.ErrInvalidQuantity)
		assert.Equal(t, MsgInvalidQuantity, message)
	}

	// Validation failures never touch the ledger.
	assert.True(t, fulfilledTotal(t, repo, alice.ID).Equal(decimal.RequireFromString("40")))
}
