package allocation

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenledger/credit-market/credit-market-backend/internal/market"
)

// testID builds uuids whose byte order matches their numeric suffix, so
// store iteration order in tests is predictable.
func testID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func producer(n int, supply string) market.Producer {
	return market.Producer{ID: testID(n), Name: fmt.Sprintf("producer-%d", n), RenewableEnergySupply: supply}
}

func order(n int, quantity string) market.CreditOrder {
	return market.CreditOrder{ID: testID(100 + n), ClientID: testID(900), Quantity: decimal.RequireFromString(quantity)}
}

func TestBuildPlanGreedyInOrder(t *testing.T) {
	producers := []market.Producer{producer(1, "100")}
	orders := []market.CreditOrder{order(1, "40"), order(2, "70")}

	plan, err := BuildPlan(producers, orders)
	require.NoError(t, err)

	// 40 fits, leaving 60; 70 does not.
	require.Len(t, plan.Fulfillments, 1)
	assert.Equal(t, orders[0].ID, plan.Fulfillments[0].OrderID)
	assert.Equal(t, producers[0].ID, plan.Fulfillments[0].ProducerID)
}

func TestBuildPlanOrderListIsFixedAcrossProducers(t *testing.T) {
	producers := []market.Producer{producer(1, "50"), producer(2, "50")}
	orders := []market.CreditOrder{order(1, "40"), order(2, "40")}

	plan, err := BuildPlan(producers, orders)
	require.NoError(t, err)

	// Producer 1 claims the first order; producer 2 revisits the same list
	// but may only claim the second.
	require.Len(t, plan.Fulfillments, 2)
	assert.Equal(t, orders[0].ID, plan.Fulfillments[0].OrderID)
	assert.Equal(t, producers[0].ID, plan.Fulfillments[0].ProducerID)
	assert.Equal(t, orders[1].ID, plan.Fulfillments[1].OrderID)
	assert.Equal(t, producers[1].ID, plan.Fulfillments[1].ProducerID)
}

func TestBuildPlanNoOverAllocation(t *testing.T) {
	producers := []market.Producer{producer(1, "75"), producer(2, "30")}
	orders := []market.CreditOrder{order(1, "50"), order(2, "30"), order(3, "25"), order(4, "30")}

	plan, err := BuildPlan(producers, orders)
	require.NoError(t, err)

	allocated := map[uuid.UUID]decimal.Decimal{}
	for _, f := range plan.Fulfillments {
		total, ok := allocated[f.ProducerID]
		if !ok {
			total = decimal.Zero
		}
		allocated[f.ProducerID] = total.Add(f.Quantity)
	}
	for _, p := range producers {
		supply, supplyErr := p.Supply()
		require.NoError(t, supplyErr)
		if total, ok := allocated[p.ID]; ok {
			assert.True(t, total.LessThanOrEqual(supply),
				"producer %s allocated %s beyond supply %s", p.ID, total, supply)
		}
	}
}

func TestBuildPlanZeroQuantityOrderIsEligible(t *testing.T) {
	producers := []market.Producer{producer(1, "10")}
	orders := []market.CreditOrder{order(1, "0"), order(2, "10")}

	plan, err := BuildPlan(producers, orders)
	require.NoError(t, err)

	// The zero-quantity order is trivially satisfied and consumes nothing,
	// so the full 10 remains for the second order.
	require.Len(t, plan.Fulfillments, 2)
}

func TestBuildPlanNegativeQuantityConsumesNothing(t *testing.T) {
	producers := []market.Producer{producer(1, "10")}
	orders := []market.CreditOrder{order(1, "-5"), order(2, "10")}

	plan, err := BuildPlan(producers, orders)
	require.NoError(t, err)

	// A negative quantity must not inflate the remaining counter.
	require.Len(t, plan.Fulfillments, 2)
	assert.Equal(t, orders[0].ID, plan.Fulfillments[0].OrderID)
	assert.Equal(t, orders[1].ID, plan.Fulfillments[1].OrderID)
}

func TestBuildPlanSkipsAlreadyFulfilledOrders(t *testing.T) {
	fulfilled := order(1, "20")
	fulfilled.IsFulfilled = true

	plan, err := BuildPlan([]market.Producer{producer(1, "100")}, []market.CreditOrder{fulfilled, order(2, "30")})
	require.NoError(t, err)

	require.Len(t, plan.Fulfillments, 1)
	assert.Equal(t, testID(102), plan.Fulfillments[0].OrderID)
}

func TestBuildPlanInvalidSupplyFailsPass(t *testing.T) {
	producers := []market.Producer{producer(1, "not-a-number")}
	orders := []market.CreditOrder{order(1, "10")}

	_, err := BuildPlan(producers, orders)
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrInvalidQuantity)
}

func TestBuildPlanEmptyInputs(t *testing.T) {
	plan, err := BuildPlan(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Fulfillments)

	plan, err = BuildPlan([]market.Producer{producer(1, "100")}, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Fulfillments)
}
