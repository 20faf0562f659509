package allocation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"greenledger/credit-market/credit-market-backend/internal/market"
)

// Fulfillment records one order claimed by one producer within a plan
type Fulfillment struct {
	OrderID    uuid.UUID
	ProducerID uuid.UUID
	Quantity   decimal.Decimal
}

// Plan is the immutable outcome of one allocation pass: which orders flip to
// fulfilled, and which producer's supply covered each of them. Building a plan
// performs no I/O; applying it is the caller's concern.
type Plan struct {
	Fulfillments []Fulfillment
}

// OrderIDs returns the ids of all orders the plan fulfills, in decision order
func (p *Plan) OrderIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Fulfillments))
	for _, f := range p.Fulfillments {
		ids = append(ids, f.OrderID)
	}
	return ids
}

// BuildPlan decides fulfillment greedily: for each producer in list order, a
// local remaining counter starts at the producer's parsed supply and the SAME
// fixed order list is walked left to right. An order is claimed when remaining
// covers its quantity and no earlier producer claimed it. Orders with zero or
// negative quantity are eligible and consume no supply. Producer supply that
// does not parse as a decimal fails the whole pass; it is never treated as
// zero. Stored supply is not depleted here; producers are consumed only
// through the local counter.
func BuildPlan(producers []market.Producer, orders []market.CreditOrder) (*Plan, error) {
	plan := &Plan{}
	claimed := make(map[uuid.UUID]bool, len(orders))

	for _, producer := range producers {
		remaining, err := producer.Supply()
		if err != nil {
			return nil, fmt.Errorf("%w: producer %s supply %q", market.ErrInvalidQuantity, producer.ID, producer.RenewableEnergySupply)
		}

		for _, order := range orders {
			if order.IsFulfilled || claimed[order.ID] {
				continue
			}
			if remaining.LessThan(order.Quantity) {
				continue
			}
			claimed[order.ID] = true
			plan.Fulfillments = append(plan.Fulfillments, Fulfillment{
				OrderID:    order.ID,
				ProducerID: producer.ID,
				Quantity:   order.Quantity,
			})
			if order.Quantity.Sign() > 0 {
				remaining = remaining.Sub(order.Quantity)
			}
		}
	}
	return plan, nil
}
