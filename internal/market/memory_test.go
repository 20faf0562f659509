package market

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryListsInAscendingIDOrder(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	// Insert out of id order; listing must come back ascending.
	for _, n := range []int{3, 1, 2} {
		order := CreditOrder{
			ID:        testID(n),
			ClientID:  testID(900),
			Quantity:  decimal.NewFromInt(int64(n)),
			BidPrice:  decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, repo.CreateCreditOrder(ctx, &order))
	}

	orders, err := repo.ListCreditOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i, order := range orders {
		assert.Equal(t, testID(i+1), order.ID)
	}
}

func TestMemoryRepositoryUnfulfilledFilter(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	fulfilled := CreditOrder{ID: testID(1), ClientID: testID(900), Quantity: decimal.NewFromInt(5), IsFulfilled: true}
	pending := CreditOrder{ID: testID(2), ClientID: testID(900), Quantity: decimal.NewFromInt(7)}
	require.NoError(t, repo.CreateCreditOrder(ctx, &fulfilled))
	require.NoError(t, repo.CreateCreditOrder(ctx, &pending))

	orders, err := repo.ListUnfulfilledOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, pending.ID, orders[0].ID)

	byClient, err := repo.ListFulfilledOrdersByClient(ctx, testID(900))
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, fulfilled.ID, byClient[0].ID)
}

func TestMemoryRepositoryGetMissingReturnsNil(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	client, err := repo.GetClientByID(ctx, testID(42))
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestMemoryRepositoryUpdateAndDelete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	client := Client{ID: testID(1), Name: "Acme"}
	require.NoError(t, repo.CreateClient(ctx, &client))

	client.Name = "Acme Renewables"
	require.NoError(t, repo.UpdateClient(ctx, &client))

	got, err := repo.GetClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Renewables", got.Name)

	require.NoError(t, repo.DeleteClient(ctx, client.ID))
	got, err = repo.GetClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
